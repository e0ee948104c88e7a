package wordlist

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

//go:embed data/en_words.csv data/de_words.csv
var files embed.FS

var ErrNoWord = errors.New("no word matches")

// List 保存按语言预加载的词表，进程启动时加载一次后只读。
type List struct {
	byLang map[string][]string
}

// Load 解析内嵌的 CSV 词表。
func Load() (*List, error) {
	l := &List{byLang: make(map[string][]string)}
	for lang, name := range map[string]string{"en": "data/en_words.csv", "de": "data/de_words.csv"} {
		f, err := files.Open(name)
		if err != nil {
			return nil, fmt.Errorf("wordlist: open %s: %w", name, err)
		}
		rows, err := csv.NewReader(f).ReadAll()
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("wordlist: parse %s: %w", name, err)
		}
		if len(rows) < 2 {
			return nil, fmt.Errorf("wordlist: %s is empty", name)
		}
		words := make([]string, 0, len(rows)-1)
		for _, row := range rows[1:] { // 首行是表头
			if len(row) == 0 {
				continue
			}
			if w := strings.ToLower(strings.TrimSpace(row[0])); w != "" {
				words = append(words, w)
			}
		}
		l.byLang[lang] = words
	}
	return l, nil
}

func (l *List) words(lang string) []string {
	if ws, ok := l.byLang[lang]; ok {
		return ws
	}
	return l.byLang["en"]
}

// Random 返回指定语言的随机单词，未知语言回退到英语。
func (l *List) Random(lang string) string {
	ws := l.words(lang)
	return ws[rand.Intn(len(ws))]
}

// RandomOfLength 返回指定长度的随机单词。
func (l *List) RandomOfLength(lang string, length int) (string, error) {
	var candidates []string
	for _, w := range l.words(lang) {
		if len([]rune(w)) == length {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoWord
	}
	return candidates[rand.Intn(len(candidates))], nil
}

// ChainCandidate 返回以指定字母开头且未被使用过的随机单词，
// 供接龙机器人出词。
func (l *List) ChainCandidate(lang string, start rune, used func(string) bool) (string, error) {
	prefix := strings.ToLower(string(start))
	var candidates []string
	for _, w := range l.words(lang) {
		if strings.HasPrefix(w, prefix) && !used(w) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoWord
	}
	return candidates[rand.Intn(len(candidates))], nil
}
