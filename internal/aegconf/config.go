// Package aegconf 负责集中式配置加载
package aegconf

import (
	"GridAegis/internal/core/domain"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New()

// EnvPrefix 是所有环境变量覆盖项的前缀，例如 GRIDAEGIS_SERVER_PORT
const EnvPrefix = "GRIDAEGIS"

const (
	DefaultPort     = 10224
	DefaultLogLevel = "INFO"
	DefaultRowID    = "data"

	// 键分隔符不使用 "."，以免 where 条件中的 `table.column` 键被拆成嵌套层级
	keyDelimiter = "::"
)

type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
	PprofAddr string `mapstructure:"pprof_addr"`
}

// RateLimitConfig 中 rps 为 0 表示不启用对应层级的限流
type RateLimitConfig struct {
	GlobalRPS   float64 `mapstructure:"global_rps" validate:"gte=0"`
	GlobalBurst int     `mapstructure:"global_burst" validate:"gte=0"`
	IPRPS       float64 `mapstructure:"ip_rps" validate:"gte=0"`
	IPBurst     int     `mapstructure:"ip_burst" validate:"gte=0"`
}

type Config struct {
	Server      ServerConfig                       `mapstructure:"server"`
	RateLimit   RateLimitConfig                    `mapstructure:"rate_limit"`
	DataSources map[string]domain.DataSourceConfig `mapstructure:"datasources"`
	Grids       map[string]domain.GridDefinition   `mapstructure:"grids"`
}

// New 创建一个已设置默认值与环境变量覆盖规则的 viper 实例。path 为空时只使用默认值与环境变量。
func New(path string) *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	v.SetDefault("server::port", DefaultPort)
	v.SetDefault("server::log_level", DefaultLogLevel)
	v.SetDefault("server::log_format", "json")
	v.SetDefault("server::pprof_addr", "")
	v.SetDefault("rate_limit::global_rps", 0)
	v.SetDefault("rate_limit::global_burst", 0)
	v.SetDefault("rate_limit::ip_rps", 0)
	v.SetDefault("rate_limit::ip_burst", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	}
	return v
}

// Load 读取配置文件并解析为 Config
func Load(path string) (*Config, error) {
	v := New(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 '%s' 失败: %w", path, err)
		}
	}
	return Decode(v)
}

// Decode 把 viper 中的配置解析为 Config，校验服务与数据源段，并补全每个 grid 的名称与默认 row_id。
// grid 定义本身由 grid 包在装载时校验。
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置到结构体失败: %w", err)
	}
	if err := validate.Struct(cfg.Server); err != nil {
		return nil, fmt.Errorf("server 配置非法: %w", err)
	}
	if err := validate.Struct(cfg.RateLimit); err != nil {
		return nil, fmt.Errorf("rate_limit 配置非法: %w", err)
	}
	for name, ds := range cfg.DataSources {
		if err := validate.Struct(ds); err != nil {
			return nil, fmt.Errorf("数据源 '%s' 配置非法: %w", name, err)
		}
	}
	for name, def := range cfg.Grids {
		def.Name = name
		if def.RowID == "" {
			def.RowID = DefaultRowID
		}
		cfg.Grids[name] = def
	}
	return &cfg, nil
}
