// Package assembler turns MODS records into output rows and feeds them to a
// harvest session.
package assembler

import (
	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/detector"
	"github.com/dtnitsch/librarycloud-harvester/pkg/extractors"
	"github.com/dtnitsch/librarycloud-harvester/pkg/logger"
	"github.com/dtnitsch/librarycloud-harvester/pkg/modstree"
	"github.com/dtnitsch/librarycloud-harvester/pkg/session"
)

// LanguageDetector fills in a language code from free text.
type LanguageDetector interface {
	Detect(text string) (detector.Result, bool)
}

// Assembler runs every field extractor over a record.
type Assembler struct {
	opts     extractors.Options
	language LanguageDetector
	log      logger.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithExtractorOptions overrides extractors.DefaultOptions.
func WithExtractorOptions(opts extractors.Options) Option {
	return func(a *Assembler) { a.opts = opts }
}

// WithLanguageDetector fills empty language columns from the title.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(a *Assembler) { a.language = d }
}

// WithLogger sets the logger used for per-record debug output.
func WithLogger(l logger.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

func New(options ...Option) *Assembler {
	a := &Assembler{
		opts: extractors.DefaultOptions(),
		log:  logger.NewNop(),
	}
	for _, o := range options {
		o(a)
	}
	return a
}

// BuildRow normalizes mods and extracts every column.
func (a *Assembler) BuildRow(mods *modstree.Node) *models.Row {
	mods = modstree.Normalize(mods)
	row := models.NewRow()

	names := extractors.SplitPersonalNames(mods)
	repository, callNumber := extractors.RepositoryAndCallNumber(mods)

	row.Set(models.ColIdentifier, extractors.Identifier(mods))
	row.Set(models.ColHollisNumber, extractors.HollisNumber(mods))
	row.Set(models.ColTitle, extractors.Title(mods))
	row.Set(models.ColVariantTitle, extractors.VariantTitles(mods))
	row.Set(models.ColCreator, extractors.Creators(mods))
	row.Set(models.ColName1, names.Name1)
	row.Set(models.ColName2, names.Name2)
	row.Set(models.ColName3, names.Name3)
	row.Set(models.ColNamesOther, names.Other)
	row.Set(models.ColCorporateName, extractors.CorporateNames(mods, a.opts))
	row.Set(models.ColPublisher, extractors.Publisher(mods))
	row.Set(models.ColPlace, extractors.Place(mods))
	row.Set(models.ColDate, extractors.Date(mods))
	row.Set(models.ColLanguage, extractors.Language(mods))
	row.Set(models.ColTypeOfResource, extractors.TypeOfResource(mods))
	row.Set(models.ColPhysicalDescription, extractors.PhysicalDescription(mods))
	row.Set(models.ColKeyword, extractors.Keywords(mods))
	row.Set(models.ColRepository, repository)
	row.Set(models.ColCallNumber, callNumber)
	row.Set(models.ColIssueNumber, extractors.IssueNumber(mods))
	row.Set(models.ColPermalink, extractors.Permalink(mods))

	row.TOCs = extractors.TableOfContents(mods)
	row.Notes = extractors.Notes(mods)

	a.fillLanguage(row)
	return row
}

func (a *Assembler) fillLanguage(row *models.Row) {
	if a.language == nil || row.Get(models.ColLanguage) != "" {
		return
	}
	res, ok := a.language.Detect(row.Get(models.ColTitle))
	if !ok {
		return
	}
	row.Set(models.ColLanguage, res.Code)
	a.log.Debug("Language detected from title",
		logger.String("hollis_number", row.Get(models.ColHollisNumber)),
		logger.String("language", res.Code),
	)
}

// Add builds the row for mods and offers it to s. It reports whether the
// row was accepted; duplicates and rows past the cap are dropped silently.
func (a *Assembler) Add(s *session.Session, mods *modstree.Node) bool {
	row := a.BuildRow(mods)
	ok := s.Accept(row)
	if !ok {
		a.log.Debug("Record skipped", logger.String("key", session.DedupKey(row)))
	}
	return ok
}
