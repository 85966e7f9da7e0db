package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	namesCacheTTL = 24 * time.Hour
	attrsCacheTTL = time.Hour

	namesCacheKey = "all"
)

// 这些形态不适合作为抽选候选，按子串过滤掉
var bannedSubstrings = []string{
	"mega", "gmax", "totem", "primal",
	"-cap", "-starter", "-cosplay",
	"-ash", "-battle-bond",
}

// PokeAPIClient 从 PokeAPI 拉取候选名单和属性。
// 外部调用都经过限速器，结果在进程内缓存。
type PokeAPIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	namesCache *ttlCache[[]string]
	attrsCache *ttlCache[Attributes]
}

func NewPokeAPIClient(baseURL string) *PokeAPIClient {
	return &PokeAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(10, 20),
		namesCache: newTTLCache[[]string](namesCacheTTL),
		attrsCache: newTTLCache[Attributes](attrsCacheTTL),
	}
}

func (c *PokeAPIClient) ListNames(ctx context.Context) ([]string, error) {
	if names, ok := c.namesCache.get(namesCacheKey); ok {
		return names, nil
	}

	var payload struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}

	url := c.baseURL + "/pokemon?limit=5000"
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(payload.Results))
	names := make([]string, 0, len(payload.Results))

	for _, r := range payload.Results {
		if !nameAllowed(r.Name) {
			continue
		}

		if _, dup := seen[r.Name]; dup {
			continue
		}

		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}

	sort.Strings(names)

	c.namesCache.set(namesCacheKey, names)

	zap.S().Infof("目录名单已刷新，共 %d 个候选", len(names))

	return names, nil
}

func (c *PokeAPIClient) AttributesOf(ctx context.Context, name string) (Attributes, error) {
	if attrs, ok := c.attrsCache.get(name); ok {
		return attrs, nil
	}

	var pokemon struct {
		Height int `json:"height"`
		Weight int `json:"weight"`
		Types  []struct {
			Type struct {
				Name string `json:"name"`
			} `json:"type"`
		} `json:"types"`
	}

	if err := c.getJSON(ctx, c.baseURL+"/pokemon/"+name, &pokemon); err != nil {
		return Attributes{}, err
	}

	attrs := Attributes{
		// 接口返回的高度单位是分米，重量单位是百克
		HeightM:  float64(pokemon.Height) / 10.0,
		WeightKg: float64(pokemon.Weight) / 10.0,
	}

	for _, t := range pokemon.Types {
		attrs.Types = append(attrs.Types, t.Type.Name)
	}

	// 颜色在 species 接口上，拿不到也不影响其它属性
	var species struct {
		Color struct {
			Name string `json:"name"`
		} `json:"color"`
	}

	if err := c.getJSON(ctx, c.baseURL+"/pokemon-species/"+name, &species); err == nil {
		attrs.Color = species.Color.Name
	} else {
		zap.S().Debugf("获取 %s 的颜色失败: %v", name, err)
	}

	c.attrsCache.set(name, attrs)

	return attrs, nil
}

func (c *PokeAPIClient) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: 状态码 %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return nil
}

func nameAllowed(name string) bool {
	for _, b := range bannedSubstrings {
		if strings.Contains(name, b) {
			return false
		}
	}

	return true
}
