package main

import (
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/calumari/jsonedit"
)

// encodeYAML writes v as YAML. Documents are converted to mapping nodes so key
// order survives.
func encodeYAML(w io.Writer, v any) error {
	n, err := yamlNode(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return err
	}
	return enc.Close()
}

func yamlNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case jsonedit.D:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v {
			val, err := yamlNode(e.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, scalar("!!str", e.Key), val)
		}
		return n, nil
	case jsonedit.A:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v {
			val, err := yamlNode(elem)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, val)
		}
		return n, nil
	case nil:
		return scalar("!!null", "null"), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(v)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(v, 10)), nil
	case uint64:
		return scalar("!!int", strconv.FormatUint(v, 10)), nil
	case float64:
		// Fractional or exponent literals decode as float64; print integral
		// values without a fraction.
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return scalar("!!int", strconv.FormatFloat(v, 'f', -1, 64)), nil
		}
		return scalar("!!float", strconv.FormatFloat(v, 'g', -1, 64)), nil
	case string:
		return scalar("!!str", v), nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
