package service

import (
	"context"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"kaucja/internal/adapters/journal"
	"kaucja/internal/core/binrec"
	"kaucja/internal/core/packaging"
	"kaucja/internal/platform/logger"
	"kaucja/internal/services/scan/domain"
)

// SourceUnmatched tags detail rows carrying keyword lines the pattern
// could not parse; they are reported but never aggregated
const SourceUnmatched = "unmatched"

// Config for the scan service
type Config struct {
	Workers int
}

// Service implements domain.RunnerPort
type Service struct {
	Ext      *packaging.Extractor
	Recorder domain.RecorderPort // optional
	Cfg      Config
	log      *logger.Logger
}

// New constructs a new scan service
func New(ext *packaging.Extractor, recorder domain.RecorderPort, cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Service{
		Ext:      ext,
		Recorder: recorder,
		Cfg:      cfg,
		log:      logger.Named("scan"),
	}
}

// partial is one worker's share of the run
type partial struct {
	details []domain.DetailRow
	agg     *Aggregator
	scanned int
	failed  int
}

// Run walks the archive under in.Root, decodes every journal file and
// returns the detail rows plus the cross-location aggregate
func (s *Service) Run(ctx context.Context, in domain.Input) (domain.Result, error) {
	files, err := journal.FindBIN(in.Root)
	if err != nil {
		return domain.Result{}, err
	}

	workers := in.Workers
	if workers <= 0 {
		workers = s.Cfg.Workers
	}
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	parts := make([]partial, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			p := &parts[w]
			p.agg = NewAggregator()
			for i := w; i < len(files); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.scanFile(files[i], in.All, p)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Result{}, err
	}

	res := domain.Result{}
	agg := NewAggregator()
	for i := range parts {
		res.Details = append(res.Details, parts[i].details...)
		res.FilesScanned += parts[i].scanned
		res.FilesFailed += parts[i].failed
		if parts[i].agg != nil {
			if err := agg.Merge(parts[i].agg); err != nil {
				return domain.Result{}, err
			}
		}
	}
	sortDetails(res.Details)
	res.Aggregates = agg.Finalize()

	if in.Persist && s.Recorder != nil {
		runID, err := s.Recorder.RecordRun(ctx, in, res)
		if err != nil {
			return res, err
		}
		if _, err := s.Recorder.RecordRows(ctx, runID, res.Details); err != nil {
			return res, err
		}
	}
	return res, nil
}

// scanFile decodes one journal file into p. Failures are counted and
// logged, never fatal to the run
func (s *Service) scanFile(ref journal.FileRef, all bool, p *partial) {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", ref.Path).Msg("journal file unreadable")
		p.failed++
		return
	}

	if ok, err := journal.VerifySidecar(ref.Path, data); err != nil {
		s.log.Warn().Err(err).Str("path", ref.Path).Msg("sidecar mismatch")
	} else if ok {
		s.log.Debug().Str("path", ref.Path).Msg("sidecar verified")
	}

	doc := binrec.Assemble(data)
	outcome := s.Ext.Extract(doc)
	p.scanned++

	ts := docTimestamp(doc)
	for _, e := range outcome.Entries {
		row := domain.DetailRow{
			Location:  ref.Location,
			Printer:   ref.Printer,
			File:      ref.Path,
			DocNumber: doc.DocNumber(),
			Timestamp: ts,
			Name:      e.Name,
			Quantity:  e.Quantity,
			UnitValue: e.UnitValue,
			Total:     e.Total,
			Source:    e.Source.String(),
		}
		p.details = append(p.details, row)
		_ = p.agg.Add(row)
	}
	if all {
		for _, line := range outcome.Unmatched {
			p.details = append(p.details, domain.DetailRow{
				Location:  ref.Location,
				Printer:   ref.Printer,
				File:      ref.Path,
				DocNumber: doc.DocNumber(),
				Timestamp: ts,
				Name:      line,
				Source:    SourceUnmatched,
			})
		}
	}
}

func docTimestamp(doc *binrec.Document) time.Time {
	if doc.Header != nil {
		return doc.Header.Timestamp
	}
	if doc.Footer != nil {
		return doc.Footer.Timestamp
	}
	return time.Time{}
}

// sortDetails orders rows deterministically regardless of worker sharding
func sortDetails(rows []domain.DetailRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Location != rows[j].Location {
			return rows[i].Location < rows[j].Location
		}
		if rows[i].Printer != rows[j].Printer {
			return rows[i].Printer < rows[j].Printer
		}
		if rows[i].File != rows[j].File {
			return rows[i].File < rows[j].File
		}
		return rows[i].DocNumber < rows[j].DocNumber
	})
}

// ensure the service satisfies its port
var _ domain.RunnerPort = (*Service)(nil)
