package lib

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

type config struct {
	ConfigKey1 string
	ConfigKey2 struct {
		ConfigKey3 string
	}
	KeyNotInConfigMap string
	Annotation        struct {
		MinDifficulty int `mapstructure:"min_difficulty"`
	}
}

var (
	configValue1   = "configValue1"
	configValue3   = "configValue3"
	configFileName string
)

func TestMain(m *testing.M) {
	configMap := map[string]interface{}{
		"configkey1": configValue1,
		"configkey2": map[string]interface{}{
			"configkey3": configValue3,
		},
		"log_level": "debug",
	}

	filename, err := createConfigFile(configMap, ".", "*.yml")
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Remove(filename)
	os.Exit(code)
}

func TestInitializeConfigFromPath(t *testing.T) {
	resetFlags()

	var parsedConfig config
	err := InitializeConfig(configFileName, map[string]interface{}{}, &parsedConfig)

	assert.NoError(t, err)
	assert.Equal(t, configValue1, parsedConfig.ConfigKey1)
	assert.Equal(t, configValue3, parsedConfig.ConfigKey2.ConfigKey3)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	resetFlags()

	overrideValue := "anewvalue"
	os.Setenv("CONFIGKEY1", overrideValue)
	os.Setenv("CONFIGKEY2_CONFIGKEY3", overrideValue)
	os.Setenv("KEYNOTINCONFIGMAP", overrideValue)
	defer func() {
		os.Unsetenv("CONFIGKEY1")
		os.Unsetenv("CONFIGKEY2_CONFIGKEY3")
		os.Unsetenv("KEYNOTINCONFIGMAP")
	}()

	var parsedConfig config
	err := InitializeConfig(configFileName, map[string]interface{}{}, &parsedConfig)

	assert.NoError(t, err)
	assert.Equal(t, overrideValue, parsedConfig.ConfigKey1)
	assert.Equal(t, overrideValue, parsedConfig.ConfigKey2.ConfigKey3)

	// If an env var does not exist in the config map, viper will not parse it
	assert.Equal(t, "", parsedConfig.KeyNotInConfigMap)
}

func TestInitializeConfigDefaults(t *testing.T) {
	resetFlags()

	var parsedConfig config
	err := InitializeConfig(configFileName, map[string]interface{}{
		"annotation": map[string]interface{}{
			"min_difficulty": 3,
		},
	}, &parsedConfig)

	assert.NoError(t, err)
	assert.Equal(t, 3, parsedConfig.Annotation.MinDifficulty)
}

func TestInitializeConfigCommandLineFlag(t *testing.T) {
	resetFlags()

	pflag.Int("annotation.min_difficulty", 1, "")
	pflag.CommandLine.Parse([]string{"--annotation.min_difficulty=4"})

	var parsedConfig config
	err := InitializeConfig(configFileName, map[string]interface{}{}, &parsedConfig)

	assert.NoError(t, err)
	assert.Equal(t, 4, parsedConfig.Annotation.MinDifficulty)
}

func TestInitializeConfigWithFlag(t *testing.T) {
	resetFlags()

	overrideConfigPath := "*.yml"
	overrideValue := "this is overridden!"
	overrideConfigMap := map[string]interface{}{
		"configkey1": overrideValue,
	}

	filename, err := createConfigFile(overrideConfigMap, ".", overrideConfigPath)
	if err != nil {
		panic(err)
	}
	defer os.Remove(filename)

	pflag.String(configFlag, "", "")
	pflag.Set(configFlag, filename)

	var parsedConfig config
	err = InitializeConfig("missing.yml", map[string]interface{}{}, &parsedConfig)

	assert.NoError(t, err)
	assert.Equal(t, overrideValue, parsedConfig.ConfigKey1)
}

func TestConfigureLogging(t *testing.T) {
	assert.NoError(t, ConfigureLogging(BaseConfig{LogLevel: "warn"}))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	assert.NoError(t, ConfigureLogging(BaseConfig{}))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	assert.Error(t, ConfigureLogging(BaseConfig{LogLevel: "loud"}))
}

func createConfigFile(configMap map[string]interface{}, path, name string) (fileName string, err error) {
	file, err := ioutil.TempFile(path, name)
	if err != nil {
		return "", err
	}
	configFileName = file.Name()

	data, err := yaml.Marshal(&configMap)
	if err != nil {
		panic(err)
	}

	if err := ioutil.WriteFile(configFileName, data, 0); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	_ = pflag.CommandLine.Parse(nil)
	viper.Reset()
}
