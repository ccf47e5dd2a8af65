package challenges

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportLimit = 1000

// ExportChallengeResults streams a challenge's results as an XLSX file
// @Summary Export challenge results
// @Description Download the full ranked results of a challenge as a spreadsheet
// @Tags Challenges
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Challenge ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /admin/challenges/{id}/export [get]
// @Security Bearer
func (h *Handler) ExportChallengeResults(c *gin.Context) {
	ch, err := h.challenges.Get(c.Param("id"))
	if err != nil {
		respondWithServiceError(c, err, ErrFailedExportResults)
		return
	}

	rows, err := h.leaderboard.Rank(ch.ID, exportLimit)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrFailedExportResults)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Results"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Rank", "Participant", "Title", "Votes", "Winner Place", "Submitted"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range rows {
		place := ""
		if row.Entry.WinnerPlace != nil {
			place = fmt.Sprintf("%d", *row.Entry.WinnerPlace)
		}
		values := []interface{}{
			row.Rank,
			row.Entry.ParticipantID,
			row.Entry.Title,
			row.VoteCount,
			place,
			row.Entry.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=challenge-%s-results.xlsx", ch.ID))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("Failed to write results export: %v", err)
	}
}
