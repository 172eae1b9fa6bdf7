package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

const (
	// English locale
	English = "en"
	// French locale, the default when nothing is detected
	French = "fr"
	// DefaultLocale 未检测到语言时使用 / Used when no language is detected
	DefaultLocale = French
)

// Supported 支持的语言列表 / Locales with a message catalog, in toggle order
var Supported = []string{English, French}

// I18n 国际化支持
// I18n provides internationalization support
type I18n struct {
	locale   string
	messages map[string]string
	mu       sync.RWMutex
}

// New 创建 i18n 实例
// New creates an i18n instance
func New(locale string) *I18n {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DetectLocale()
	}
	i := &I18n{}
	i.load(Normalize(locale))
	return i
}

func (i *I18n) load(locale string) {
	messages := make(map[string]string, len(EnMessages))
	// 先加载英文作为 fallback / Load English as fallback first
	for k, v := range EnMessages {
		messages[k] = v
	}
	if locale == French {
		for k, v := range FrMessages {
			messages[k] = v
		}
	}
	i.mu.Lock()
	i.locale = locale
	i.messages = messages
	i.mu.Unlock()
}

// SetLocale 运行时切换语言 / Switches the catalog at runtime
func (i *I18n) SetLocale(locale string) {
	i.load(Normalize(locale))
}

// T 翻译函数 / Translation function
func (i *I18n) T(key string, args ...any) string {
	i.mu.RLock()
	tmpl, ok := i.messages[key]
	i.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Locale 返回当前 locale
// Locale returns current locale
func (i *I18n) Locale() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.locale
}

// Next 返回切换后的语言 / The locale that follows current in Supported
func Next(current string) string {
	current = Normalize(current)
	for idx, l := range Supported {
		if l == current {
			return Supported[(idx+1)%len(Supported)]
		}
	}
	return Supported[0]
}

// DetectLocale 自动检测 locale
// DetectLocale auto-detects locale from environment
func DetectLocale() string {
	for _, env := range []string{"BRICKTRACK_LANG", "LANG", "LC_ALL", "LC_MESSAGES"} {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" {
			continue
		}
		return Normalize(v)
	}
	return DefaultLocale
}

// Normalize maps any locale string onto a supported locale.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLocale
	}
	// 去掉 .UTF-8 等后缀 / Remove .UTF-8 suffix
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	lower := strings.ToLower(strings.ReplaceAll(s, "_", "-"))

	if strings.HasPrefix(lower, "en") {
		return English
	}
	if strings.HasPrefix(lower, "fr") {
		return French
	}
	return DefaultLocale
}
