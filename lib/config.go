/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lib

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlag = "config"

type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`
	// LogFormat is "json" (default) or "console".
	LogFormat string `mapstructure:"log_format"`
}

// InitializeConfig loads the settings of a gloss command into targetStruct.
//
// Values are resolved in this order, highest first:
//
//   - flags on pflag.CommandLine that were set, bound to the key of the same
//     name (--annotation.min_difficulty=3, --lexicon.dir=./resources)
//   - env vars named after the key, upper case with "_" for "." (LEXICON_DIR)
//   - the yaml file at defaultPath, or at --config when given
//   - defaultConfig, normally job.DefaultConfig() plus command keys
//
// Commands define their flags before calling it; --config is added here if
// missing and the command line is parsed once. A missing config file is
// logged and ignored. log_level and log_format are applied before
// targetStruct is filled, so later failures are logged in the chosen format.
func InitializeConfig(defaultPath string, defaultConfig map[string]interface{}, targetStruct interface{}) error {
	configFile, err := bindCommandLine(defaultPath)
	if err != nil {
		return err
	}
	for key, value := range defaultConfig {
		viper.SetDefault(key, value)
	}

	// Env vars are only consulted for keys viper already knows about.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := readConfigFile(configFile); err != nil {
		return err
	}

	var bc BaseConfig
	if err := viper.Unmarshal(&bc); err != nil {
		return err
	}
	if err := ConfigureLogging(bc); err != nil {
		return err
	}
	return viper.Unmarshal(targetStruct)
}

// bindCommandLine parses the command line if needed, binds every flag to
// viper and returns the absolute path of the config file.
func bindCommandLine(defaultPath string) (string, error) {
	if pflag.Lookup(configFlag) == nil {
		pflag.String(configFlag, defaultPath, "The config file path.")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return "", err
	}
	return filepath.Abs(viper.GetString(configFlag))
}

func readConfigFile(path string) error {
	viper.SetConfigName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	viper.AddConfigPath(filepath.Dir(path))

	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Warn().Err(err).Str("path", path).Msg("no config file, default settings applied")
		return nil
	}
	return err
}

// ConfigureLogging sets the global zerolog level and output.
func ConfigureLogging(bc BaseConfig) error {
	level := bc.LogLevel
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)

	if bc.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return nil
}
