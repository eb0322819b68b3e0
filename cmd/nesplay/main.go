// Command nesplay is a frame-scrubbing TUI playback viewer: it loads
// a ROM and a recorded input sequence, then lets the user step or
// jump forward and backward through the resulting run, leaning on
// periodic snapshots (internal/snapshot) so scrubbing backward never
// has to replay from frame zero.
package main

import (
	"bufio"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aldengrove/nesgo/internal/cartridge"
	"github.com/aldengrove/nesgo/internal/core"
	"github.com/aldengrove/nesgo/internal/joyinput"
)

var (
	controller1 string
	controller2 string
)

var rootCmd = &cobra.Command{
	Use:   "nesplay <rom> <sequence-file>",
	Short: "Scrub back and forth through a recorded input sequence",
	Args:  cobra.ExactArgs(2),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&controller1, "controller1", "Standard", "Controller 1 type: Standard, Four Score 1, Four Score 2, None")
	rootCmd.Flags().StringVar(&controller2, "controller2", "None", "Controller 2 type")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	romData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}
	cart, err := cartridge.Load(romData)
	if err != nil {
		return fmt.Errorf("parsing rom: %w", err)
	}
	nes, err := core.Open(cart)
	if err != nil {
		return fmt.Errorf("opening core: %w", err)
	}

	seq, err := loadSequence(args[1], controllerType(controller1), controllerType(controller2))
	if err != nil {
		return fmt.Errorf("loading sequence: %w", err)
	}

	p := tea.NewProgram(newModel(nes, seq))
	_, err = p.Run()
	return err
}

func loadSequence(path string, c1, c2 joyinput.ControllerType) ([]joyinput.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var seq []joyinput.Frame
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		frame, err := joyinput.Parse(line, c1, c2)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		seq = append(seq, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return seq, nil
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
