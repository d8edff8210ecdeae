package daily

import (
	"errors"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/config"
	"github.com/harrisonrobin/prdaily/pkg/datefmt"
	"github.com/harrisonrobin/prdaily/pkg/estimate"
	"github.com/harrisonrobin/prdaily/pkg/files"
	"github.com/harrisonrobin/prdaily/pkg/model"
	"github.com/harrisonrobin/prdaily/pkg/prd"
	"github.com/harrisonrobin/prdaily/pkg/report"
)

// Clock supplies the current time.
type Clock func() time.Time

// Service runs the document operations against one configuration.
type Service struct {
	cfg *config.Config
	now Clock
}

func New(cfg *config.Config, now Clock) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{cfg: cfg, now: now}
}

// Result is the outcome of a write operation.
type Result struct {
	Path    string
	Message string
	Created bool
}

// SummaryResult is the outcome of Summarize.
type SummaryResult struct {
	Result
	Completed int
	Pending   int
	Total     time.Duration
	Files     int
}

// CreateFolder creates or reuses the YYMMDD folder for the day.
func (s *Service) CreateFolder(date, base string) (Result, error) {
	day, err := datefmt.Resolve(date, s.now())
	if err != nil {
		return Result{}, classify(err, "")
	}
	if base == "" {
		base = s.cfg.DailyDir()
	}
	dir := filepath.Join(files.Expand(base), datefmt.FolderCode(day))

	created, err := files.EnsureDir(dir)
	if err != nil {
		return Result{Path: dir}, classify(err, dir)
	}
	if !created {
		return Result{Path: dir, Message: "Carpeta ya existe"}, nil
	}

	readme := filepath.Join(dir, "README.md")
	if err := files.WriteNew(readme, report.FolderReadme(day, s.now())); err != nil && !errors.Is(err, ErrFileAlreadyExists) {
		return Result{Path: dir}, classify(err, readme)
	}
	return Result{Path: dir, Message: "Carpeta creada exitosamente", Created: true}, nil
}

// CreatePRD writes the PRD skeleton for the day. An existing PRD is never
// overwritten.
func (s *Service) CreatePRD(date, base string) (Result, error) {
	day, err := datefmt.Resolve(date, s.now())
	if err != nil {
		return Result{}, classify(err, "")
	}
	if base == "" {
		base = s.cfg.PRDDir()
	}
	dir := files.Expand(base)
	if s.cfg.Features.UseDailyFolders {
		dir = filepath.Join(dir, datefmt.FolderCode(day))
	}
	path := filepath.Join(dir, "PRD_"+datefmt.Compact(day)+".md")

	if err := files.WriteNew(path, report.PRD(day, s.now())); err != nil {
		return Result{Path: path}, classify(err, path)
	}
	return Result{Path: path, Message: "Creado exitosamente", Created: true}, nil
}

// Summarize analyzes the daily folder and writes RESUMEN_YYMMDD.md.
func (s *Service) Summarize(date, base, output string) (SummaryResult, error) {
	day, err := datefmt.Resolve(date, s.now())
	if err != nil {
		return SummaryResult{}, classify(err, "")
	}
	return s.summarizeDay(day, base, output)
}

func (s *Service) summarizeDay(day time.Time, base, output string) (SummaryResult, error) {
	if base == "" {
		base = s.cfg.DailyDir()
	}
	code := datefmt.FolderCode(day)
	dir := filepath.Join(files.Expand(base), code)
	if !files.Exists(dir) {
		return SummaryResult{}, opError(ErrFileNotFound, "Carpeta no encontrada", dir, nil)
	}

	list, err := files.List(dir)
	if err != nil {
		return SummaryResult{}, classify(err, dir)
	}
	if len(list) == 0 {
		return SummaryResult{}, opError(ErrNoDataFound, "No se encontraron archivos en la carpeta", dir, nil)
	}

	var tasks []model.Task
	var source string
	for _, f := range list {
		if !strings.HasPrefix(f.Name, "PRD_") {
			continue
		}
		doc, err := prd.ParseFile(f.Path)
		if err != nil {
			log.Printf("Warning: could not read %s: %v", f.Path, err)
			continue
		}
		tasks = doc.Tasks(prd.TimesOnly)
		source = f.Name
		break
	}

	est := estimate.Estimate(tasks, day, list[0].Created, estimate.Options{
		Tail:     s.cfg.TailDuration(),
		Strategy: estimate.Span,
	})
	completed, pending := report.Split(tasks)
	now := s.now()

	body := report.Summary(report.SummaryInput{
		Day:        day,
		FolderName: code,
		FolderPath: dir,
		Start:      est.Start,
		Tasks:      tasks,
		Total:      est.Total,
		Files:      list,
		Metadata:   s.cfg.Features.TrackFileMetadata,
		Generated:  now,
	})
	content, err := prd.WriteFrontMatter(prd.Meta{
		Kind:         "summary",
		Date:         datefmt.Compact(day),
		Source:       source,
		Generated:    now,
		Tasks:        len(tasks),
		Completed:    len(completed),
		Pending:      len(pending),
		TotalMinutes: int(est.Total / time.Minute),
	}, body)
	if err != nil {
		return SummaryResult{}, classify(err, "")
	}

	outDir := files.Expand(output)
	if outDir == "" {
		outDir = s.cfg.ReportsDir()
	}
	if outDir == "" {
		outDir = dir
	}
	path := filepath.Join(outDir, "RESUMEN_"+code+".md")
	if err := files.Write(path, content); err != nil {
		return SummaryResult{}, classify(err, path)
	}

	return SummaryResult{
		Result:    Result{Path: path, Message: "Resumen generado exitosamente", Created: true},
		Completed: len(completed),
		Pending:   len(pending),
		Total:     est.Total,
		Files:     len(list),
	}, nil
}

// Hours writes HORAS_<stem>.md next to the PRD, or into output when set.
func (s *Service) Hours(prdPath, output string) (Result, error) {
	doc, err := prd.ParseFile(prdPath)
	if err != nil {
		return Result{}, classify(err, prdPath)
	}
	if doc.Date == "" {
		return Result{}, opError(ErrNoDataFound, "No se encontró la fecha en el PRD", prdPath, nil)
	}
	tasks := doc.Tasks(prd.TimesOnly)
	if len(tasks) == 0 {
		return Result{}, opError(ErrNoDataFound, "No se encontraron tareas con horas", prdPath, nil)
	}

	day, err := doc.Day()
	if err != nil {
		log.Printf("Warning: could not parse PRD date %q: %v", doc.Date, err)
		day = s.now()
	}
	est := estimate.Estimate(tasks, day, time.Time{}, estimate.Options{
		Tail:     s.cfg.TailDuration(),
		Strategy: estimate.Sum,
	})
	completed, pending := report.Split(tasks)
	now := s.now()

	body := report.Hours(report.HoursInput{
		Date:      doc.Date,
		Tasks:     tasks,
		Estimate:  est,
		Generated: now,
	})
	content, err := prd.WriteFrontMatter(prd.Meta{
		Kind:         "hours",
		Date:         datefmt.Compact(day),
		Source:       filepath.Base(prdPath),
		Generated:    now,
		Tasks:        len(tasks),
		Completed:    len(completed),
		Pending:      len(pending),
		TotalMinutes: int(est.Total / time.Minute),
	}, body)
	if err != nil {
		return Result{}, classify(err, "")
	}

	path := filepath.Join(outputDir(prdPath, output), "HORAS_"+stem(prdPath)+".md")
	if err := files.Write(path, content); err != nil {
		return Result{}, classify(err, path)
	}
	return Result{Path: path, Message: "Reporte generado exitosamente", Created: true}, nil
}

// Dashboard writes <stem>_DASHBOARD.html next to the PRD, or into output when set.
func (s *Service) Dashboard(prdPath, output string) (Result, error) {
	doc, err := prd.ParseFile(prdPath)
	if err != nil {
		return Result{}, classify(err, prdPath)
	}
	hours, _ := doc.Value("Total de horas")

	html, err := report.Dashboard(report.DashboardInput{
		Date:      doc.Date,
		Hours:     hours,
		Tasks:     doc.Tasks(prd.WithBody),
		Generated: s.now(),
	})
	if err != nil {
		return Result{}, classify(err, "")
	}

	path := filepath.Join(outputDir(prdPath, output), stem(prdPath)+"_DASHBOARD.html")
	if err := files.Write(path, html); err != nil {
		return Result{}, classify(err, path)
	}
	return Result{Path: path, Message: "Dashboard generado exitosamente", Created: true}, nil
}

// RefreshSummary regenerates the day summary of the PRD's day when the
// auto_summary feature is on and the daily folder exists. It returns nil
// when there is nothing to refresh.
func (s *Service) RefreshSummary(prdPath string) (*SummaryResult, error) {
	if !s.cfg.Features.AutoSummary {
		return nil, nil
	}
	doc, err := prd.ParseFile(prdPath)
	if err != nil {
		return nil, classify(err, prdPath)
	}
	day, err := doc.Day()
	if err != nil {
		return nil, nil
	}
	if !files.Exists(filepath.Join(s.cfg.DailyDir(), datefmt.FolderCode(day))) {
		return nil, nil
	}
	res, err := s.summarizeDay(day, "", "")
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func outputDir(source, output string) string {
	if output != "" {
		return files.Expand(output)
	}
	return filepath.Dir(source)
}
