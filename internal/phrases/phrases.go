// internal/phrases/phrases.go
//
// Static copy used by the games and views: puzzle phrases, affirmations,
// self-care tips, journal prompts, article links, home quotes and
// features, and the breathing script.
//
// Loading behavior (Init):
//   1. If a path is given (PHRASES_FILE), parse that file.
//   2. Otherwise parse the catalog embedded in assets.
//
// File format: "[section]" headers, one item per line, "left | right" for
// pair sections, "#" comments. Unknown sections are an error so typos
// don't silently drop copy.

package phrases

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/manasvi/assets"
)

// Pair is a two-part entry (title/url, quote/author, title/description).
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Catalog holds every section.
type Catalog struct {
	Puzzle       []string `json:"puzzle"`
	Affirmations []string `json:"affirmations"`
	Tips         []string `json:"tips"`
	Prompts      []string `json:"prompts"`
	Articles     []Pair   `json:"articles"`
	Quotes       []Pair   `json:"quotes"`
	Features     []Pair   `json:"features"`
	Values       []Pair   `json:"values"`
	Breathing    string   `json:"breathing"`
}

// ErrNoPuzzle is returned when a catalog has no puzzle phrases.
var ErrNoPuzzle = errors.New("phrases: puzzle section is empty")

// Parse reads a catalog from r.
func Parse(r io.Reader) (*Catalog, error) {
	c := &Catalog{}
	section := ""
	lineNo := 0
	var breathing []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		switch section {
		case "puzzle":
			// Puzzle phrases are compared word by word; normalize spacing.
			c.Puzzle = append(c.Puzzle, strings.Join(strings.Fields(line), " "))
		case "affirmations":
			c.Affirmations = append(c.Affirmations, line)
		case "tips":
			c.Tips = append(c.Tips, line)
		case "prompts":
			c.Prompts = append(c.Prompts, line)
		case "breathing":
			breathing = append(breathing, line)
		case "articles", "quotes", "features", "values":
			p, err := parsePair(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			switch section {
			case "articles":
				c.Articles = append(c.Articles, p)
			case "quotes":
				c.Quotes = append(c.Quotes, p)
			case "features":
				c.Features = append(c.Features, p)
			default:
				c.Values = append(c.Values, p)
			}
		case "":
			return nil, fmt.Errorf("line %d: text outside any section", lineNo)
		default:
			return nil, fmt.Errorf("line %d: unknown section %q", lineNo, section)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	c.Breathing = strings.Join(breathing, " ")
	if len(c.Puzzle) == 0 {
		return nil, ErrNoPuzzle
	}
	return c, nil
}

func parsePair(line string) (Pair, error) {
	left, right, ok := strings.Cut(line, "|")
	if !ok {
		return Pair{}, fmt.Errorf("expected \"left | right\", got %q", line)
	}
	return Pair{Left: strings.TrimSpace(left), Right: strings.TrimSpace(right)}, nil
}

// Load parses the file at path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		r   io.ReadCloser
		err error
	)
	if path == "" {
		r, err = assets.Open(assets.DefaultPhrases)
	} else {
		r, err = os.Open(path)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

var (
	initOnce sync.Once
	catalog  *Catalog
	source   string
	initErr  error
)

// Init loads the process-wide catalog from path (embedded when empty)
// exactly once. Later calls return the first result whatever their path.
func Init(path string) error {
	initOnce.Do(func() {
		source = path
		catalog, initErr = Load(path)
	})
	return initErr
}

// Default returns the process-wide catalog, loading the embedded one if
// Init was never called. It returns nil if loading failed.
func Default() *Catalog {
	_ = Init("")
	return catalog
}

// Source names where the process-wide catalog came from: the file path,
// or "embedded".
func Source() string {
	_ = Init("")
	if source == "" {
		return "embedded"
	}
	return source
}

// Stats returns item counts per section.
func (c *Catalog) Stats() map[string]int {
	return map[string]int{
		"puzzle":       len(c.Puzzle),
		"affirmations": len(c.Affirmations),
		"tips":         len(c.Tips),
		"prompts":      len(c.Prompts),
		"articles":     len(c.Articles),
		"quotes":       len(c.Quotes),
		"features":     len(c.Features),
		"values":       len(c.Values),
	}
}
