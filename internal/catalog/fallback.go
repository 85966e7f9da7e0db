package catalog

import (
	"context"

	"go.uber.org/zap"
)

// 目录不可用时的保底名单，保证抽选不被外部依赖卡住
var fallbackNames = []string{
	"bulbasaur", "ivysaur", "venusaur", "charmander", "charmeleon",
	"charizard", "squirtle", "wartortle", "blastoise", "caterpie",
	"pidgey", "rattata", "pikachu", "raichu", "sandshrew",
	"nidoran-f", "nidoran-m", "clefairy", "vulpix", "jigglypuff",
	"zubat", "oddish", "diglett", "meowth", "psyduck",
	"mankey", "growlithe", "poliwag", "abra", "machop",
	"geodude", "ponyta", "slowpoke", "magnemite", "gastly",
	"onix", "krabby", "voltorb", "exeggcute", "cubone",
	"koffing", "rhyhorn", "horsea", "staryu", "scyther",
	"magikarp", "gyarados", "lapras", "eevee", "snorlax",
}

// FallbackProvider 包装真实目录：名单查询失败时退回内置列表，
// 属性查询失败时返回零值（线索会显示 Unknown），从不向上层报错
type FallbackProvider struct {
	inner Provider
}

func WithFallback(inner Provider) *FallbackProvider {
	return &FallbackProvider{inner: inner}
}

func (fp *FallbackProvider) ListNames(ctx context.Context) ([]string, error) {
	names, err := fp.inner.ListNames(ctx)
	if err != nil {
		zap.S().Warnf("目录名单获取失败，使用内置保底名单: %v", err)
		return append([]string(nil), fallbackNames...), nil
	}

	return names, nil
}

func (fp *FallbackProvider) AttributesOf(ctx context.Context, name string) (Attributes, error) {
	attrs, err := fp.inner.AttributesOf(ctx, name)
	if err != nil {
		zap.S().Warnf("获取 %s 的属性失败，线索降级为 Unknown: %v", name, err)
		return Attributes{}, nil
	}

	return attrs, nil
}
