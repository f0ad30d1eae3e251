// Package catalog resolves display metadata for block keys: localized default
// titles, icons and colors. Built-in defaults can be overridden from a CSV
// (metadata) and an XLSX workbook (titles per language).
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"piar/pkg/blocks"
)

type Meta struct {
	Key    blocks.Key
	Icon   string
	Color  string
	Titles map[string]string // language -> title
}

type Catalog struct {
	meta        map[blocks.Key]Meta
	defaultLang string
}

// Default returns the built-in catalog with the fixed vocabulary.
func Default(lang string) *Catalog {
	if lang == "" {
		lang = "es"
	}
	c := &Catalog{meta: map[blocks.Key]Meta{}, defaultLang: lang}
	for _, d := range builtins {
		c.meta[d.Key] = d
	}
	return c
}

// LoadFromFiles starts from the built-in catalog and applies optional
// overrides: a CSV of key,icon,color rows and an XLSX with key,language,title
// rows on the first sheet.
func LoadFromFiles(lang, metaCSV, titlesXLSX string) (*Catalog, error) {
	c := Default(lang)
	if metaCSV != "" {
		if err := c.loadMetaCSV(metaCSV); err != nil {
			return nil, err
		}
	}
	if titlesXLSX != "" {
		if err := c.loadTitlesXLSX(titlesXLSX); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) loadMetaCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read catalog csv: %w", err)
		}
		if first {
			first = false
			if strings.EqualFold(rec[0], "key") {
				continue
			}
		}
		if len(rec) < 3 {
			continue
		}
		key := blocks.Key(strings.TrimSpace(rec[0]))
		m := c.meta[key]
		m.Key = key
		m.Icon = strings.TrimSpace(rec[1])
		m.Color = strings.TrimSpace(rec[2])
		if m.Titles == nil {
			m.Titles = map[string]string{}
		}
		c.meta[key] = m
	}
	return nil
}

func (c *Catalog) loadTitlesXLSX(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open titles xlsx: %w", err)
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("read titles xlsx: %w", err)
	}
	for i, row := range rows {
		if len(row) < 3 {
			continue
		}
		if i == 0 && strings.EqualFold(row[0], "key") {
			continue
		}
		key := blocks.Key(strings.TrimSpace(row[0]))
		lang := strings.ToLower(strings.TrimSpace(row[1]))
		title := strings.TrimSpace(row[2])
		if key == "" || lang == "" || title == "" {
			continue
		}
		m := c.meta[key]
		m.Key = key
		if m.Titles == nil {
			m.Titles = map[string]string{}
		}
		m.Titles[lang] = title
		c.meta[key] = m
	}
	return nil
}

func (c *Catalog) Meta(k blocks.Key) (Meta, bool) {
	m, ok := c.meta[k]
	return m, ok
}

// DefaultTitle resolves the title for a key: requested language, then the
// catalog default language, then English, then the key itself.
func (c *Catalog) DefaultTitle(k blocks.Key, lang string) string {
	m, ok := c.meta[k]
	if !ok {
		return humanize(k)
	}
	for _, l := range []string{strings.ToLower(lang), c.defaultLang, "en"} {
		if t := m.Titles[l]; t != "" {
			return t
		}
	}
	return humanize(k)
}

// TitleFunc binds DefaultTitle to one language for use by the block editor.
func (c *Catalog) TitleFunc(lang string) blocks.TitleFunc {
	return func(k blocks.Key) string { return c.DefaultTitle(k, lang) }
}

func humanize(k blocks.Key) string {
	s := strings.ReplaceAll(string(k), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var builtins = []Meta{
	{Key: blocks.KeyDiagnosis, Icon: "stethoscope", Color: "#7c3aed",
		Titles: map[string]string{"es": "Diagnóstico", "en": "Diagnosis"}},
	{Key: blocks.KeyGoal, Icon: "target", Color: "#2563eb",
		Titles: map[string]string{"es": "Objetivo de apoyo", "en": "Support goal"}},
	{Key: blocks.KeyStrategy, Icon: "map", Color: "#0891b2",
		Titles: map[string]string{"es": "Estrategia", "en": "Strategy"}},
	{Key: blocks.KeyRecommendations, Icon: "list-checks", Color: "#16a34a",
		Titles: map[string]string{"es": "Recomendaciones", "en": "Recommendations"}},
	{Key: blocks.KeyEmotionalSupport, Icon: "heart", Color: "#db2777",
		Titles: map[string]string{"es": "Apoyo emocional", "en": "Emotional support"}},
	{Key: blocks.KeyFamilyTips, Icon: "home", Color: "#ea580c",
		Titles: map[string]string{"es": "Pautas para la familia", "en": "Family tips"}},
	{Key: blocks.KeyActivities, Icon: "puzzle", Color: "#ca8a04",
		Titles: map[string]string{"es": "Actividades", "en": "Activities"}},
	{Key: blocks.KeyResources, Icon: "book-open", Color: "#4f46e5",
		Titles: map[string]string{"es": "Recursos", "en": "Resources"}},
	{Key: blocks.KeyTrackingIndicators, Icon: "chart-line", Color: "#0d9488",
		Titles: map[string]string{"es": "Indicadores de seguimiento", "en": "Tracking indicators"}},
	{Key: blocks.KeyCustom, Icon: "pencil", Color: "#64748b",
		Titles: map[string]string{"es": "Sección personalizada", "en": "Custom section"}},
}
