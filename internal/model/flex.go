package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexFloat decodes a JSON number or a numeric string. Bitcoin Core reports
// some fee fields either way depending on version and configuration.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// Float returns the plain float64 value.
func (f FlexFloat) Float() float64 {
	return float64(f)
}
