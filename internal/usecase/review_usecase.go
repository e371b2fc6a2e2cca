package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
)

const NotParsedYet = "Not parsed yet"

// Export content types.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"
)

// ReviewDeps groups the read models HR reviews.
type ReviewDeps struct {
	Candidates   domain.CandidateRepository
	Jobs         domain.JobRepository
	Resumes      domain.ResumeRepository
	Sessions     domain.SessionRepository
	Questions    domain.QuestionRepository
	Answers      domain.AnswerRepository
	Evaluations  domain.EvaluationRepository
	CheatingLogs domain.CheatingLogRepository
	EmailLogs    domain.EmailLogRepository
}

type reviewUsecase struct {
	ReviewDeps
}

func NewReviewUsecase(deps ReviewDeps) domain.ReviewUsecase {
	return &reviewUsecase{ReviewDeps: deps}
}

func (u *reviewUsecase) GetCandidateDetail(ctx context.Context, candidateID int64) (*domain.CandidateDetail, error) {
	c, err := u.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, notFoundOr(err, "Candidate not found")
	}

	detail := &domain.CandidateDetail{
		Name:         c.Name,
		Email:        c.Email,
		ResumeText:   NotParsedYet,
		Questions:    []domain.Question{},
		CheatingLogs: []domain.CheatingLog{},
		EmailLogs:    []domain.EmailLog{},
	}

	resume, err := u.Resumes.GetByCandidateID(ctx, c.ID)
	switch {
	case err == nil:
		detail.ResumeText = resume.RawText
		detail.Metadata = &resume.Metadata
	case !errors.Is(err, domain.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	if logs, err := u.EmailLogs.ListByCandidate(ctx, c.ID); err != nil {
		return nil, apperror.Internal(err)
	} else if logs != nil {
		detail.EmailLogs = logs
	}

	session, err := u.Sessions.GetByCandidateID(ctx, c.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return detail, nil
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	questions, err := u.Questions.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	answers, err := u.Answers.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	byQuestion := make(map[int64][]domain.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}
	for i := range questions {
		questions[i].Answers = byQuestion[questions[i].ID]
	}
	if questions != nil {
		detail.Questions = questions
	}

	eval, err := u.Evaluations.GetBySessionID(ctx, session.ID)
	switch {
	case err == nil:
		detail.Evaluation = eval
	case !errors.Is(err, domain.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	logs, err := u.CheatingLogs.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if logs != nil {
		detail.CheatingLogs = logs
	}
	return detail, nil
}

// GetRanking lists evaluated candidates of a job, best score first, ranked
// from 1.
func (u *reviewUsecase) GetRanking(ctx context.Context, jobID int64) ([]domain.RankingEntry, error) {
	if _, err := u.Jobs.GetByID(ctx, jobID); err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	entries, err := u.Evaluations.ListRankingByJob(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if entries == nil {
		entries = []domain.RankingEntry{}
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

var rankingHeaders = []string{"RANK", "NAME", "EMAIL", "SCORE", "CHEATING FLAG"}

// ExportRanking renders the ranking as xlsx (default) or csv and returns the
// file with its content type.
func (u *reviewUsecase) ExportRanking(ctx context.Context, jobID int64, format string) ([]byte, string, error) {
	if format != "" && format != "xlsx" && format != "csv" {
		return nil, "", apperror.BadRequest(fmt.Sprintf("unsupported export format: %s", format))
	}
	entries, err := u.GetRanking(ctx, jobID)
	if err != nil {
		return nil, "", err
	}
	if format == "csv" {
		return exportRankingCSV(entries)
	}
	return exportRankingExcel(entries)
}

func rankingRow(e domain.RankingEntry) []any {
	cheating := "NO"
	if e.Cheating {
		cheating = "YES"
	}
	return []any{e.Rank, e.Name, e.Email, e.Score, cheating}
}

func exportRankingExcel(entries []domain.RankingEntry) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Ranking"
	f.SetSheetName("Sheet1", sheetName)

	for i, h := range rankingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(rankingHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, e := range entries {
		for colIdx, v := range rankingRow(e) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range rankingHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", apperror.Internal(fmt.Errorf("failed to write Excel file: %w", err))
	}
	return buf.Bytes(), ContentTypeXLSX, nil
}

func exportRankingCSV(entries []domain.RankingEntry) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(rankingHeaders)
	for _, e := range entries {
		row := rankingRow(e)
		_ = w.Write([]string{
			strconv.Itoa(e.Rank),
			e.Name,
			e.Email,
			strconv.FormatFloat(e.Score, 'f', -1, 64),
			row[4].(string),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", apperror.Internal(err)
	}
	return buf.Bytes(), ContentTypeCSV, nil
}
