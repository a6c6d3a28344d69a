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
	"text/tabwriter"

	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/spf13/cobra"
)

// rotorsCmd represents the rotors command
var rotorsCmd = &cobra.Command{
	Use:   "rotors",
	Short: "List the rotors available in the machine",
	Long:  `List the alphabet, the number of rotor slots and pawls, and every rotor of the machine with its type, notches and wiring.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		m, name := loadMachine()
		cobra.CheckErr(listRotors(os.Stdout, m, name))
	},
}

func init() {
	rootCmd.AddCommand(rotorsCmd)
}

func listRotors(w io.Writer, m *machine.Machine, machineName string) error {
	fmt.Fprintf(w, "Machine:  %s\nAlphabet: %s\nSlots:    %d\nPawls:    %d\n\n",
		machineName, m.Alphabet(), m.NumRotors(), m.NumPawls())

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tNOTCHES\tDERANGEMENT\tCYCLES")
	for _, r := range m.Available() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\n",
			r.Name(), r.Kind(), r.Notches(), r.Permutation().Derangement(), r.Permutation())
	}
	return tw.Flush()
}
