// Command nestest drives an emulated console through a recorded input
// sequence described by a test script and prints the SHA1 hash of the
// resulting low RAM, exercising the snapshot engine along the way per
// the selected cycle type.
package main

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aldengrove/nesgo/internal/cartridge"
	"github.com/aldengrove/nesgo/internal/core"
	"github.com/aldengrove/nesgo/internal/joyinput"
	"github.com/aldengrove/nesgo/internal/snapshot"
)

var cycleFlag string

var rootCmd = &cobra.Command{
	Use:   "nestest <script.json>",
	Short: "Replay a recorded input sequence against a ROM and hash the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func init() {
	rootCmd.Flags().StringVar(&cycleFlag, "cycle", "Simple", "replay cycle type: Simple, Rerecord or Full")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := loadScript(args[0])
	if err != nil {
		return fmt.Errorf("loading script: %w", err)
	}

	romData, err := os.ReadFile(script.RomFile)
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}
	if script.ExpectedROMSHA1 != "" {
		sum := sha1.Sum(romData)
		got := hex.EncodeToString(sum[:])
		if got != script.ExpectedROMSHA1 {
			return fmt.Errorf("rom SHA1 mismatch: got %s, want %s", got, script.ExpectedROMSHA1)
		}
	}

	cart, err := cartridge.Load(romData)
	if err != nil {
		return fmt.Errorf("parsing rom: %w", err)
	}
	nes, err := core.Open(cart)
	if err != nil {
		return fmt.Errorf("opening core: %w", err)
	}

	if script.InitialStateFile != "" {
		stateData, err := os.ReadFile(script.InitialStateFile)
		if err != nil {
			return fmt.Errorf("reading initial state: %w", err)
		}
		if err := snapshot.Deserialize(nes, stateData); err != nil {
			return fmt.Errorf("loading initial state: %w", err)
		}
	}

	cy, err := parseCycleType(cycleFlag)
	if err != nil {
		return err
	}
	rn := newRunner(nes, script.DisableStateBlocks, script.DiffCompression)

	c1, c2 := controllerType(script.Controller1Type), controllerType(script.Controller2Type)

	seqFile, err := os.Open(script.SequenceFile)
	if err != nil {
		return fmt.Errorf("opening sequence file: %w", err)
	}
	defer seqFile.Close()

	lineNo := 0
	scanner := bufio.NewScanner(seqFile)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		frame, err := joyinput.Parse(line, c1, c2)
		if err != nil {
			return fmt.Errorf("sequence line %d: %w", lineNo, err)
		}
		if err := rn.RunFrame(cy, frame); err != nil {
			return fmt.Errorf("frame %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading sequence file: %w", err)
	}

	sum := sha1.Sum(nes.Bus().RAMBytes())
	hash := hex.EncodeToString(sum[:])
	log.Info("run complete", "frames", lineNo, "ram_sha1", hash, "cpu_errors", nes.RunErrors())
	fmt.Println(hash)
	return nil
}

func controllerType(s string) joyinput.ControllerType {
	switch s {
	case "Standard":
		return joyinput.TypeStandard
	case "Four Score 1":
		return joyinput.TypeFourScore1
	case "Four Score 2":
		return joyinput.TypeFourScore2
	default:
		return joyinput.TypeNone
	}
}
