package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// 目录服务不可用；上层应当降级到内置列表而不是中断抽选
var ErrUnavailable = errors.New("目录服务不可用")

// Attributes 是单个候选的描述性属性，用于神秘模式的线索
type Attributes struct {
	Types    []string
	HeightM  float64
	WeightKg float64
	Color    string
}

// Provider 是候选目录的只读查询接口
type Provider interface {
	// 返回全部可抽选的名字，量大且近乎静态，实现应当缓存
	ListNames(ctx context.Context) ([]string, error)
	AttributesOf(ctx context.Context, name string) (Attributes, error)
}

// Clue 把属性转换成某种线索文本，未知属性统一显示 Unknown
func (a Attributes) Clue(kind string) string {
	switch kind {
	case "type":
		if len(a.Types) == 0 {
			return "Unknown"
		}

		pretty := make([]string, 0, len(a.Types))
		for _, t := range a.Types {
			pretty = append(pretty, PrettyName(t))
		}

		return strings.Join(pretty, ", ")

	case "height":
		if a.HeightM <= 0 {
			return "Unknown"
		}

		return fmt.Sprintf("%.2g m", a.HeightM)

	case "weight":
		if a.WeightKg <= 0 {
			return "Unknown"
		}

		return fmt.Sprintf("%.4g kg", a.WeightKg)

	case "color":
		if a.Color == "" {
			return "Unknown"
		}

		return PrettyName(a.Color)
	}

	return "Unknown"
}

// PrettyName 把小写带连字符的标识名转成展示名
// 例如 "mr-mime" -> "Mr Mime"
func PrettyName(name string) string {
	parts := strings.Split(strings.ReplaceAll(name, "-", " "), " ")

	for i, p := range parts {
		if p == "" {
			continue
		}

		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}

	return strings.Join(parts, " ")
}
