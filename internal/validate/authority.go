package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// SourceClassifier types citation URLs by their host
type SourceClassifier struct {
	domainMap    map[string]model.SourceType
	suffixes     []suffixRule
	pathPatterns []*compiledPattern
}

type suffixRule struct {
	suffix     string
	sourceType model.SourceType
}

type compiledPattern struct {
	pattern    *regexp.Regexp
	sourceType model.SourceType
}

// defaultDomains are matched exactly or as a parent domain
var defaultDomains = map[string]model.SourceType{
	"wikipedia.org":       model.SourceWikipedia,
	"doi.org":             model.SourceAcademicPaper,
	"jstor.org":           model.SourceAcademicPaper,
	"scholar.google.com":  model.SourceAcademicPaper,
	"researchgate.net":    model.SourceAcademicPaper,
	"cambridge.org":       model.SourceAcademicPaper,
	"tandfonline.com":     model.SourceAcademicPaper,
	"archive.org":         model.SourceBook,
	"openlibrary.org":     model.SourceBook,
	"gutenberg.org":       model.SourceBook,
	"ucdp.uu.se":          model.SourceDatabase,
	"acleddata.com":       model.SourceDatabase,
	"correlatesofwar.org": model.SourceDatabase,
	"satp.org":            model.SourceDatabase,
	"legislation.gov.uk":  model.SourceGovernmentRecord,
	"indiacode.nic.in":    model.SourceGovernmentRecord,
}

// defaultSuffixes catch institutional TLDs not listed by name
var defaultSuffixes = []suffixRule{
	{".gov", model.SourceGovernmentRecord},
	{".gov.in", model.SourceGovernmentRecord},
	{".nic.in", model.SourceGovernmentRecord},
	{".gov.pk", model.SourceGovernmentRecord},
	{".gov.bd", model.SourceGovernmentRecord},
	{".gov.uk", model.SourceGovernmentRecord},
	{".edu", model.SourceAcademicPaper},
	{".ac.uk", model.SourceAcademicPaper},
	{".ac.in", model.SourceAcademicPaper},
	{".edu.pk", model.SourceAcademicPaper},
}

// defaultPathPatterns match against host+path, in order
var defaultPathPatterns = []struct {
	pattern    string
	sourceType model.SourceType
}{
	{`^books\.google\.[a-z.]+/`, model.SourceBook},
	{`^www\.google\.[a-z.]+/books`, model.SourceBook},
}

// NewSourceClassifier creates a classifier. Overrides map a host or parent
// domain to a source type and take precedence over the built-in table.
func NewSourceClassifier(overrides map[string]model.SourceType) *SourceClassifier {
	classifier := &SourceClassifier{
		domainMap:    make(map[string]model.SourceType, len(defaultDomains)+len(overrides)),
		suffixes:     defaultSuffixes,
		pathPatterns: make([]*compiledPattern, 0, len(defaultPathPatterns)),
	}

	for domain, t := range defaultDomains {
		classifier.domainMap[domain] = t
	}
	for domain, t := range overrides {
		classifier.domainMap[strings.ToLower(domain)] = t
	}

	for _, p := range defaultPathPatterns {
		classifier.pathPatterns = append(classifier.pathPatterns, &compiledPattern{
			pattern:    regexp.MustCompile(p.pattern),
			sourceType: p.sourceType,
		})
	}

	return classifier
}

// Classify returns the source type of a citation URL
func (c *SourceClassifier) Classify(rawURL string) model.SourceType {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return model.SourceOther
	}

	host := strings.ToLower(parsed.Hostname())

	// Walk from the full host up through its parent domains
	for candidate := host; candidate != ""; {
		if t, ok := c.domainMap[candidate]; ok {
			return t
		}
		idx := strings.Index(candidate, ".")
		if idx < 0 {
			break
		}
		candidate = candidate[idx+1:]
	}

	target := host + parsed.Path
	for _, cp := range c.pathPatterns {
		if cp.pattern.MatchString(target) {
			return cp.sourceType
		}
	}

	for _, rule := range c.suffixes {
		if strings.HasSuffix(host, rule.suffix) {
			return rule.sourceType
		}
	}

	return model.SourceOther
}
