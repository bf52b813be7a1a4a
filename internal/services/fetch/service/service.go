// Package service implements the fetch service
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"kaucja/internal/adapters/journal"
	perr "kaucja/internal/platform/errors"
	"kaucja/internal/platform/logger"
	"kaucja/internal/services/fetch/domain"
)

const (
	defaultStartDir = "EJ0"
	shardStep       = 100
)

// Service implements domain.RunnerPort
type Service struct {
	Dev    domain.DevicePort
	Ledger domain.LedgerPort // optional
	log    *logger.Logger
}

// New constructs a new fetch service
func New(dev domain.DevicePort, ledger domain.LedgerPort) *Service {
	return &Service{
		Dev:    dev,
		Ledger: ledger,
		log:    logger.Named("fetch"),
	}
}

// Run mirrors one printer's journal into the local archive. It refuses to
// touch printers that are not fiscalized: their journals carry no documents
func (s *Service) Run(ctx context.Context, in domain.Input) (domain.Result, error) {
	if in.StartDir == "" {
		in.StartDir = defaultStartDir
	}

	med, err := s.readMedium(ctx, in.StartDir)
	if err != nil {
		return domain.Result{}, err
	}
	res := domain.Result{Medium: med, LastIndex: -1}
	if !med.Fiscalized {
		return res, perr.InvalidArgf("printer is not fiscalized, no registration prefix")
	}
	s.log.Info().
		Str("model", med.Model).
		Str("prefix", med.Prefix).
		Str("nip", med.NIP).
		Msg("printer identified")

	startIndex := in.StartIndex
	if startIndex < 0 && s.Ledger != nil {
		last, err := s.Ledger.LastIndex(ctx, in.Location, med.Prefix)
		if err != nil {
			return res, err
		}
		if last >= 0 {
			startIndex = last + 1
			s.log.Info().Int("start_index", startIndex).Msg("resuming from ledger")
		}
	}

	archive := journal.NewArchive(in.Root)
	docRoot := in.StartDir + "/DOC"

	if startIndex >= 0 {
		err = s.walkShards(ctx, docRoot, startIndex, in, med, archive, &res)
	} else {
		err = s.walkDir(ctx, docRoot, -1, in, med, archive, &res)
	}
	if err != nil {
		return res, err
	}

	if s.Ledger != nil {
		if err := s.Ledger.RecordRun(ctx, in, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Service) readMedium(ctx context.Context, startDir string) (domain.Medium, error) {
	data, err := s.Dev.ReadFile(ctx, startDir+"/medium.dat")
	if err != nil {
		return domain.Medium{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "read medium.dat")
	}
	m, err := journal.ParseMedium(data)
	if err != nil {
		return domain.Medium{}, err
	}
	return domain.Medium{
		Model:      m.Model(),
		Prefix:     m.Prefix,
		MediumNo:   m.MediumNo,
		Registry:   m.RegistryNo,
		NIP:        m.NIP,
		Fiscalized: m.Fiscalized(),
	}, nil
}

// walkShards visits numbered DOC/<A>/<BB>/<CC> directories starting at the
// shard holding startIndex and stops at the first shard that contributes
// no files
func (s *Service) walkShards(
	ctx context.Context,
	docRoot string,
	startIndex int,
	in domain.Input,
	med domain.Medium,
	archive *journal.Archive,
	res *domain.Result,
) error {
	idx := startIndex
	for {
		a := idx / 1_000_000
		bb := (idx / 10_000) % 100
		cc := (idx / 100) % 100
		target := fmt.Sprintf("%s/%d/%02d/%02d", docRoot, a, bb, cc)

		before := res.Found
		if err := s.walkDir(ctx, target, startIndex, in, med, archive, res); err != nil {
			return err
		}
		if res.Found == before {
			return nil
		}
		idx += shardStep
	}
}

// walkDir recursively fetches journal files under path. Directories that
// cannot be listed are skipped; individual file failures are logged and
// counted as found-but-not-saved
func (s *Service) walkDir(
	ctx context.Context,
	path string,
	startIndex int,
	in domain.Input,
	med domain.Medium,
	archive *journal.Archive,
	res *domain.Result,
) error {
	entries, err := s.Dev.ListDir(ctx, path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("directory listing failed")
		return nil
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		remote := path + "/" + e.Name
		if e.Dir {
			if err := s.walkDir(ctx, remote, startIndex, in, med, archive, res); err != nil {
				return err
			}
			continue
		}
		up := strings.ToUpper(e.Name)
		if !strings.HasSuffix(up, ".BIN") && !strings.HasSuffix(up, ".SIG") {
			continue
		}
		if num, ok := fileIndex(e.Name); ok && startIndex >= 0 && num < startIndex {
			res.Skipped++
			continue
		}
		res.Found++

		data, err := s.Dev.ReadFile(ctx, remote)
		if err != nil || len(data) == 0 {
			s.log.Warn().Err(err).Str("path", remote).Msg("file fetch failed")
			continue
		}
		meta, err := archive.Save(in.Location, med.Prefix, remote, data)
		if err != nil {
			s.log.Warn().Err(err).Str("path", remote).Msg("archive save failed")
			continue
		}
		res.Saved++
		if num, ok := fileIndex(e.Name); ok && strings.HasSuffix(up, ".BIN") && num > res.LastIndex {
			res.LastIndex = num
		}
		s.log.Debug().
			Str("remote", remote).
			Str("saved", meta.SavedPath).
			Str("sha256", meta.SHA256).
			Msg("file archived")
	}
	return nil
}

// fileIndex parses the numeric index of a journal file name like 00000045.BIN
func fileIndex(name string) (int, bool) {
	stem, _, _ := strings.Cut(name, ".")
	n, err := strconv.Atoi(stem)
	if err != nil {
		return 0, false
	}
	return n, true
}

var _ domain.RunnerPort = (*Service)(nil)
