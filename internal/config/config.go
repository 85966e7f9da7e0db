package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// 留空时使用内存存储，否则使用 Postgres
	DatabaseURL string `mapstructure:"database_url"`

	// PokeAPI 的基础地址，测试时可以指向本地的假服务
	PokeAPIBaseURL string `mapstructure:"pokeapi_base_url"`

	Draft DraftConfig `mapstructure:"draft"`
}

// 抽选规则相关的配置，均有合理的默认值
type DraftConfig struct {
	// 每个玩家需要抽满的数量
	GoalPerPlayer int `mapstructure:"goal_per_player"`
	// 揭示窗口时长，单位秒
	RevealWindowSec int `mapstructure:"reveal_window_sec"`
	// 经典模式下是否必须伪装后才能展示
	DisguiseRequired bool `mapstructure:"disguise_required"`
	// 是否从候选池中排除已被抽走的
	ExcludePicked bool `mapstructure:"exclude_picked"`
	// 经典模式下是否由同一名玩家伪装并抽选
	// 默认为 false：伪装者展示后，由顺位的下一名玩家抽选
	ActorAlsoPicks bool `mapstructure:"actor_also_picks"`
}

func (dc DraftConfig) RevealWindow() time.Duration {
	return time.Duration(dc.RevealWindowSec) * time.Second
}

var cfg *AppConfig

func GetConfig() *AppConfig {
	if cfg == nil {
		cfg = InitConfig()
	}

	return cfg
}

func InitConfig() *AppConfig {
	v := viper.New()

	v.SetConfigFile("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("加载配置失败: %w", err))
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("解析配置失败: %w", err))
	}

	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("pokeapi_base_url", "https://pokeapi.co/api/v2")

	v.SetDefault("draft.goal_per_player", 6)
	v.SetDefault("draft.reveal_window_sec", 5)
	v.SetDefault("draft.disguise_required", true)
	v.SetDefault("draft.exclude_picked", false)
	v.SetDefault("draft.actor_also_picks", false)
}
