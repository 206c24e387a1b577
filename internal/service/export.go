package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/boetepot/platform/internal/domain"
	"github.com/boetepot/platform/internal/repository"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the season workbook.
const (
	SheetFines   = "Boetes"
	SheetPlayers = "Spelers"
	SheetReasons = "Redenen"
)

// XLSXContentType is the MIME type of the season workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const exportDateLayout = "2006-01-02 15:04"

// ExportService renders the current season as a spreadsheet so it can be
// archived before a reset.
type ExportService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(store repository.Store, logger *slog.Logger) *ExportService {
	return &ExportService{store: store, logger: logger}
}

// SeasonWorkbook returns an xlsx file with the fines, the leaderboard and the reasons.
func (s *ExportService) SeasonWorkbook(ctx context.Context) ([]byte, error) {
	season, err := s.store.Season(ctx)
	if err != nil {
		return nil, domain.ErrInternal("Failed to export fines", err)
	}
	fines, totals, reasons := season.Fines, season.Totals, season.Reasons
	domain.SortLeaderboard(totals)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetFines); err != nil {
		return nil, domain.ErrInternal("Failed to export fines", err)
	}
	if _, err := f.NewSheet(SheetPlayers); err != nil {
		return nil, domain.ErrInternal("Failed to export fines", err)
	}
	if _, err := f.NewSheet(SheetReasons); err != nil {
		return nil, domain.ErrInternal("Failed to export fines", err)
	}

	fineRows := make([][]interface{}, 0, len(fines)+1)
	fineRows = append(fineRows, []interface{}{"ID", "Speler", "Datum", "Bedrag", "Reden"})
	for _, fine := range fines {
		fineRows = append(fineRows, []interface{}{
			fine.ID, fine.Speler, fine.Datum.Format(exportDateLayout), fine.Bedrag.Float64(), fine.Reden,
		})
	}

	playerRows := make([][]interface{}, 0, len(totals)+1)
	playerRows = append(playerRows, []interface{}{"Speler", "Totaal"})
	for _, t := range totals {
		playerRows = append(playerRows, []interface{}{t.Speler, t.Totaal.Float64()})
	}

	reasonRows := make([][]interface{}, 0, len(reasons)+1)
	reasonRows = append(reasonRows, []interface{}{"ID", "Naam", "Bedrag"})
	for _, r := range reasons {
		reasonRows = append(reasonRows, []interface{}{r.ID, r.Naam, r.Bedrag.Float64()})
	}

	for sheet, rows := range map[string][][]interface{}{
		SheetFines:   fineRows,
		SheetPlayers: playerRows,
		SheetReasons: reasonRows,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return nil, domain.ErrInternal("Failed to export fines", err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, domain.ErrInternal("Failed to export fines", err)
	}

	s.logger.InfoContext(ctx, "season exported",
		"fines", len(fines),
		"players", len(totals),
		"reasons", len(reasons),
		"bytes", buf.Len(),
	)
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
