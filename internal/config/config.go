// Package config собирает настройки приложения.
//
// Окно приложения работает на значениях по умолчанию и не читает ни флаги, ни
// переменные окружения. Консоль laserterm дополнительно читает YAML-файл,
// переменные LASERLINK_* и .env через viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"laserlink/internal/domain/ports"
	"laserlink/pkg/linkport"
)

// AccessKey ключ доступа, встроенный в сборку. Переопределяется при сборке:
//
//	go build -ldflags "-X laserlink/internal/config.AccessKey=..."
//
// Ключ виден в бинарнике, это защита от случайного подключения, а не от злоумышленника.
var AccessKey = "ABC123"

// EnvPrefix префикс переменных окружения консоли.
const EnvPrefix = "LASERLINK"

// Ключи viper.
const (
	KeyPort           = "port"
	KeyEncoding       = "encoding"
	KeySimulate       = "simulate"
	KeySimulatedPorts = "simulated_ports"
	KeyDebug          = "debug"
	KeyLogFile        = "log_file"
)

// Settings настройки приложения. Скорость и таймаут порта фиксированы прошивкой устройства.
type Settings struct {
	Port           string   // порт, выбранный при старте (если есть в списке)
	Encoding       string   // кодировка строк устройства
	Simulate       bool     // работать с эмулятором вместо реальных портов
	SimulatedPorts []string // имена портов эмулятора
	Debug          bool
	LogFile        string
}

// Default настройки по умолчанию.
func Default() Settings {
	return Settings{
		Encoding:       linkport.DefaultEncoding,
		SimulatedPorts: []string{"SIM0", "SIM1"},
		LogFile:        "laserterm.log",
	}
}

// SetDefaults регистрирует значения по умолчанию в viper.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeyEncoding, d.Encoding)
	v.SetDefault(KeySimulate, d.Simulate)
	v.SetDefault(KeySimulatedPorts, d.SimulatedPorts)
	v.SetDefault(KeyDebug, d.Debug)
	v.SetDefault(KeyLogFile, d.LogFile)
}

// Load читает .env, файл конфигурации (если задан или найден как ./laserterm.yaml)
// и переменные окружения LASERLINK_*.
func Load(v *viper.Viper, cfgFile string) (Settings, error) {
	// .env необязателен
	_ = godotenv.Load()

	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("laserterm")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	s := FromViper(v)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FromViper собирает Settings из уже заполненного viper.
func FromViper(v *viper.Viper) Settings {
	return Settings{
		Port:           strings.TrimSpace(v.GetString(KeyPort)),
		Encoding:       v.GetString(KeyEncoding),
		Simulate:       v.GetBool(KeySimulate),
		SimulatedPorts: v.GetStringSlice(KeySimulatedPorts),
		Debug:          v.GetBool(KeyDebug),
		LogFile:        v.GetString(KeyLogFile),
	}
}

// Validate проверяет настройки.
func (s Settings) Validate() error {
	var problems []string
	if _, err := linkport.LookupCodec(s.Encoding); err != nil {
		problems = append(problems, fmt.Sprintf("encoding: %v", err))
	}
	if s.Simulate && len(s.SimulatedPorts) == 0 {
		problems = append(problems, "simulated_ports: at least one port is required in simulate mode")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LinkConfig параметры сессии порта.
func (s Settings) LinkConfig(log ports.Logger) (linkport.Config, error) {
	codec, err := linkport.LookupCodec(s.Encoding)
	if err != nil {
		return linkport.Config{}, err
	}
	return linkport.Config{
		BaudRate:    linkport.DefaultBaudRate,
		ReadTimeout: linkport.DefaultReadTimeout,
		Codec:       codec,
		Logger:      log,
	}, nil
}
