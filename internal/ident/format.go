package ident

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	nodePrefix   = "node"
	inputPrefix  = "input"
	outputPrefix = "output"
)

func (id NodeID) String() string   { return fmt.Sprintf("%s[%d]", nodePrefix, uint32(id)) }
func (id InputID) String() string  { return fmt.Sprintf("%s[%d]", inputPrefix, uint32(id)) }
func (id OutputID) String() string { return fmt.Sprintf("%s[%d]", outputPrefix, uint32(id)) }

// handleRegex matches the canonical `kind[index]` form.
var handleRegex = regexp.MustCompile(`^(node|input|output)\[(\d+)\]$`)

func parse(raw, want string) (uint32, error) {
	if raw == "" {
		return 0, fmt.Errorf("identifier cannot be empty")
	}
	matches := handleRegex.FindStringSubmatch(raw)
	if matches == nil {
		return 0, fmt.Errorf("invalid identifier format: %q", raw)
	}
	if matches[1] != want {
		return 0, fmt.Errorf("identifier %q is not a %s handle", raw, want)
	}
	index, err := strconv.ParseUint(matches[2], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier index in %q: %w", raw, err)
	}
	return uint32(index), nil
}

// ParseNodeID parses the canonical form produced by NodeID.String.
func ParseNodeID(raw string) (NodeID, error) {
	index, err := parse(raw, nodePrefix)
	return NodeID(index), err
}

// ParseInputID parses the canonical form produced by InputID.String.
func ParseInputID(raw string) (InputID, error) {
	index, err := parse(raw, inputPrefix)
	return InputID(index), err
}

// ParseOutputID parses the canonical form produced by OutputID.String.
func ParseOutputID(raw string) (OutputID, error) {
	index, err := parse(raw, outputPrefix)
	return OutputID(index), err
}
