// Package builtin provides the retrieval-backed tools offered to the model:
// course content search and course outlines.
package builtin

import "github.com/mitchellh/mapstructure"

// decodeArgs decodes the model-supplied argument map into a typed struct.
// Weak typing absorbs JSON's float64 numbers into integer fields.
func decodeArgs(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
