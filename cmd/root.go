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
	"log/slog"
	"os"
	"strings"

	"github.com/bgallie/enigma/config"
	"github.com/bgallie/enigma/cryptors/machine"
	"github.com/spf13/cobra"

	"github.com/spf13/viper"
)

var (
	cfgFile         string
	machineFileName string
	inputFileName   string
	outputFileName  string
	logger          = slog.New(slog.NewTextHandler(io.Discard, nil))
	GitCommit       string = "not set"
	BuildDate       string = "not set"
	Version         string = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "enigma",
	Short:   "An Enigma rotor machine simulator",
	Long:    `enigma encrypts and decrypts messages the way the Enigma rotor machines did, using a configurable set of rotors, reflectors and a plugboard.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetVersionTemplate(fmt.Sprintf("enigma {{.Version}} (commit %s, built %s)\n", GitCommit, BuildDate))
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.enigma.yaml)")
	rootCmd.PersistentFlags().StringVarP(&machineFileName, "machine", "m", "", "the file describing the machine to use instead of the builtin machine.")
	rootCmd.PersistentFlags().StringVarP(&inputFileName, "inputFile", "i", "-", "Name of the file containing the settings and messages.")
	rootCmd.PersistentFlags().StringVarP(&outputFileName, "outputFile", "o", "-", "Name of the file to receive the converted messages.")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log each session and converted line to stderr")
	cobra.CheckErr(viper.BindPFlag("machine", rootCmd.PersistentFlags().Lookup("machine")))
	cobra.CheckErr(viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".enigma" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".enigma")
	}

	viper.SetEnvPrefix("enigma")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	err := viper.ReadInConfig()
	logger = newLogger(os.Stderr)
	if err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadDescription returns the machine description named by the machine
// flag (or config key), or the builtin one.
func loadDescription() (*config.Description, string) {
	name := viper.GetString("machine")
	if name == "" {
		return config.Default(), "builtin"
	}
	d, err := config.Load(name)
	cobra.CheckErr(err)
	return d, name
}

func loadMachine() (*machine.Machine, string) {
	d, name := loadDescription()
	m, err := d.Build(machine.WithLogger(logger))
	if err != nil {
		cobra.CheckErr(fmt.Errorf("%s: %w", name, err))
	}
	logger.Debug("machine built", "machine", name, "slots", m.NumRotors(), "pawls", m.NumPawls(), "rotors", len(m.Available()))
	return m, name
}

/*
	getInputAndOutputFiles will return the input and output files to use while
	converting messages.  If input and/or output files names were given,
	then those files will be opened.  Otherwise stdin and stdout are used.
*/
func getInputAndOutputFiles() (*os.File, *os.File) {
	var fin *os.File
	var err error

	if len(inputFileName) > 0 && inputFileName != "-" {
		fin, err = os.Open(inputFileName)
		cobra.CheckErr(err)
	} else {
		fin = os.Stdin
	}

	var fout *os.File

	if len(outputFileName) > 0 && outputFileName != "-" {
		fout, err = os.Create(outputFileName)
		cobra.CheckErr(err)
	} else {
		fout = os.Stdout
	}

	return fin, fout
}

// checkError checks for error that are not io.EOF and io.ErrUnexpectedEOF and reports them.
func checkError(e error) {
	if e != io.EOF && e != io.ErrUnexpectedEOF {
		cobra.CheckErr(e)
	}
}
