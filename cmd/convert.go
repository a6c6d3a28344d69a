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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/bgallie/enigma/stream"
	"github.com/bgallie/filters/pem"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

const pemType = "ENIGMA MESSAGE"

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:     "convert",
	Aliases: []string{"encrypt", "decrypt"},
	Short:   "Encrypt or decrypt a stream of messages",
	Long: `Encrypt or decrypt a stream of messages.  The machine is its own inverse, so
the same command does both.

The input starts with a settings line, for example

	* B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)

naming the reflector and the rotors from left to right, the rotor settings,
optionally the ring settings, and the plugboard pairs.  Every following line is
a message converted under those settings, until the next settings line.
The output is written in groups of five letters.

With --settings the session is set up before the input is read, so the input
need not start with a settings line.  This is how an armored message, which
holds only the converted text, is decrypted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		m, name := loadMachine()
		convert(m, name)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolP("armor", "p", false, "wrap the output in a PEM block.")
	convertCmd.Flags().IntP("group", "g", 5, "number of letters in each output group")
	convertCmd.Flags().StringP("settings", "s", "", "settings line applied before the input is read")
	cobra.CheckErr(viper.BindPFlag("armor", convertCmd.Flags().Lookup("armor")))
	cobra.CheckErr(viper.BindPFlag("group", convertCmd.Flags().Lookup("group")))
	cobra.CheckErr(viper.BindPFlag("settings", convertCmd.Flags().Lookup("settings")))
}

func convert(m *machine.Machine, machineName string) {
	fin, fout := getInputAndOutputFiles()
	defer fout.Close()
	if fin == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Enter a settings line followed by the messages, end with ^D.")
	}

	bRdr := bufio.NewReader(fin)
	var in io.Reader = bRdr
	b, err := bRdr.Peek(5)
	checkError(err)
	if string(b) == "-----" {
		pRdr, blck := pem.FromPem(bRdr)
		logger.Debug("reading PEM input", "type", blck.Type, "machine", blck.Headers["Machine"])
		in = pRdr
	}

	p := stream.New(m, stream.WithLogger(logger), stream.WithGroupSize(viper.GetInt("group")))
	if settings := viper.GetString("settings"); settings != "" {
		if !stream.IsSettings(settings) {
			settings = "* " + settings
		}
		cobra.CheckErr(p.SetUp(settings))
	}
	if !viper.GetBool("armor") {
		cobra.CheckErr(p.Process(in, fout))
		return
	}

	var converted bytes.Buffer
	cobra.CheckErr(p.Process(in, &converted))
	var blck pem.Block
	blck.Type = pemType
	blck.Headers = make(map[string]string)
	blck.Headers["Machine"] = machineName
	blck.Headers["Group"] = strconv.Itoa(viper.GetInt("group"))
	_, err = io.Copy(fout, pem.ToPem(bufio.NewReader(&converted), blck))
	checkError(err)
}
