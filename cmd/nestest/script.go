package main

import (
	"encoding/json"
	"os"
)

// diffConfig mirrors the test script's "Differential Compression"
// object, controlling whether the Rerecord/Full cycle modes diff each
// snapshot against the previous one instead of writing it in full.
type diffConfig struct {
	Enabled        bool `json:"Enabled"`
	MaxDifferences int  `json:"Max Differences"`
	UseZlib        bool `json:"Use Zlib"`
}

// testScript is the external JSON format described by §6: the only
// piece of the test harness the core needs to know about, since the
// core itself is driven by already-parsed fields, not the JSON file.
type testScript struct {
	RomFile            string     `json:"Rom File"`
	InitialStateFile   string     `json:"Initial State File"`
	SequenceFile       string     `json:"Sequence File"`
	ExpectedROMSHA1    string     `json:"Expected ROM SHA1"`
	DisableStateBlocks []string   `json:"Disable State Blocks"`
	Controller1Type    string     `json:"Controller 1 Type"`
	Controller2Type    string     `json:"Controller 2 Type"`
	DiffCompression    diffConfig `json:"Differential Compression"`
}

func loadScript(path string) (*testScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s testScript
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
