/*
Copyright © 2026 Billy G. Allie <bill.allie@defiant.mug.org>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/stream"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [settings line]",
	Short: "Check a machine description and, optionally, a settings line",
	Long: `Check that the machine description can be built.  When a settings line is
given (quote it, the plugboard pairs use parentheses) it is also applied to the
machine and the resulting rotor order and positions are shown.`,
	Run: func(cmd *cobra.Command, args []string) {
		m, name := loadMachine()
		cobra.CheckErr(check(os.Stdout, m, name, strings.Join(args, " ")))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check(w io.Writer, m *machine.Machine, machineName, settings string) error {
	fmt.Fprintf(w, "%s: %d rotors available, %d slots, %d pawls\n",
		machineName, len(m.Available()), m.NumRotors(), m.NumPawls())
	if settings == "" {
		return nil
	}

	if !stream.IsSettings(settings) {
		settings = "* " + settings
	}
	s, err := stream.ParseSettings(settings, m.NumRotors())
	if err != nil {
		return err
	}
	if err := s.Apply(m); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: rotors %s at %s\n", s, strings.Join(m.Rotors(), " "), m.Positions())
	return nil
}
