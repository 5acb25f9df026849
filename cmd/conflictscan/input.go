package main

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/agenthands/concord/internal/core/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseRecords accepts a JSON array of records or an object with a
// "records" array.
func parseRecords(data []byte) ([]model.Record, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return nil, errors.New("input is empty")
	}

	if data[0] == '[' {
		var records []model.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, errors.Wrap(err, "decode record array")
		}
		return records, nil
	}

	var wrapper struct {
		Records *[]model.Record `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, errors.Wrap(err, "decode records object")
	}
	if wrapper.Records == nil {
		return nil, errors.New(`input object has no "records" field`)
	}
	return *wrapper.Records, nil
}

func readRecords(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	records, err := parseRecords(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return records, nil
}
