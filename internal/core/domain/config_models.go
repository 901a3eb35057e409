// Package domain file: internal/core/domain/config_models.go
package domain

// DataSourceConfig 定义了一个命名数据源 (数据库连接) 的配置
type DataSourceConfig struct {
	Driver string `mapstructure:"driver" json:"driver" validate:"required,oneof=sqlite mysql postgres"`
	DSN    string `mapstructure:"dsn" json:"-" validate:"required"`
}

// GridDefinition 是配置文件中单个数据表格 (grid) 的声明。
// where / joins / row_class 在配置中允许多种写法，因此保留为原始值，由 grid 包负责解码。
type GridDefinition struct {
	Name           string   `mapstructure:"-" json:"name"`
	DataSource     string   `mapstructure:"datasource" json:"datasource" validate:"required"`
	Table          string   `mapstructure:"table" json:"table"`
	PrimaryKey     string   `mapstructure:"primary_key" json:"primary_key"`
	Columns        []string `mapstructure:"columns" json:"columns"`
	Where          any      `mapstructure:"where" json:"where,omitempty"`
	Joins          []any    `mapstructure:"joins" json:"joins,omitempty"`
	GroupBy        []string `mapstructure:"group_by" json:"group_by,omitempty"`
	RowID          string   `mapstructure:"row_id" json:"row_id,omitempty"`
	RowClass       any      `mapstructure:"row_class" json:"row_class,omitempty"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps" json:"rate_limit_rps,omitempty" validate:"gte=0"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" json:"rate_limit_burst,omitempty" validate:"gte=0"`
}

// TableConfig 是一次表格请求所使用的、已解码的表/列/过滤配置。
// 构造后不可变，只属于单个请求处理实例。
type TableConfig struct {
	Table      string   `validate:"required"`
	PrimaryKey string   `validate:"required"`
	Columns    []string `validate:"required,min=1,dive,required"`
	Where      WhereSpec
	Joins      []JoinSpec `validate:"dive"`
	GroupBy    []string   `validate:"dive,required"`
}

// JoinSpec 描述一个 JOIN：目标表、ON 条件与连接类型 (为空时默认 inner)
type JoinSpec struct {
	Table     string `validate:"required"`
	Condition string `validate:"required"`
	Type      string
}

// WhereSpec 要么是一段原样透传的 SQL 谓词 (Raw)，要么是按顺序 AND 组合的条件列表。
type WhereSpec struct {
	Raw        string
	Conditions []WhereCondition
}

// WhereCondition 中 Key 为空表示 Value 是一段原始谓词片段；否则为 `Key = Value` 条件。
type WhereCondition struct {
	Key   string
	Value any
}

// IsZero 判断是否没有任何 WHERE 条件
func (w WhereSpec) IsZero() bool {
	return w.Raw == "" && len(w.Conditions) == 0
}
