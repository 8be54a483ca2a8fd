package protocol

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	//go:embed schemas/hello.schema.json
	helloSchemaJSON string
	//go:embed schemas/cmd.schema.json
	cmdSchemaJSON string

	helloSchema = jsonschema.MustCompileString("hello.schema.json", helloSchemaJSON)
	cmdSchema   = jsonschema.MustCompileString("cmd.schema.json", cmdSchemaJSON)
)

// ParseHello validates raw against the HELLO schema and decodes it.
func ParseHello(raw []byte) (HelloMsg, error) {
	var m HelloMsg
	if err := validate(helloSchema, raw); err != nil {
		return m, err
	}
	err := json.Unmarshal(raw, &m)
	return m, err
}

// ParseCmd validates raw against the CMD schema and decodes it.
func ParseCmd(raw []byte) (CmdMsg, error) {
	var m CmdMsg
	if err := validate(cmdSchema, raw); err != nil {
		return m, err
	}
	err := json.Unmarshal(raw, &m)
	return m, err
}

func validate(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
