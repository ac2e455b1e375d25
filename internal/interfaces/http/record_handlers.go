package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bizhub/backoffice/internal/export"
	"github.com/bizhub/backoffice/internal/models"
	"github.com/bizhub/backoffice/internal/report"
	"github.com/bizhub/backoffice/pkg/utils"
)

// dashboardResponse bundles the aggregate counters with the six-month
// trend series consumed by the dashboard chart.
type dashboardResponse struct {
	Summary report.Summary     `json:"summary"`
	Trend   report.TrendSeries `json:"trend"`
}

func (s *Server) handleDashboard(c *gin.Context) {
	jobs, err := s.jobs.List(report.Unbounded())
	if err != nil {
		s.writeError(c, err)
		return
	}
	expenditures, err := s.expenditures.List(report.Unbounded())
	if err != nil {
		s.writeError(c, err)
		return
	}

	now := s.now()
	c.JSON(http.StatusOK, dashboardResponse{
		Summary: report.Aggregate(jobs, expenditures, now),
		Trend:   report.BuildTrend(jobs, expenditures, now),
	})
}

// jobResponse adds the derived total to the job payload
type jobResponse struct {
	models.Job
	TotalAmount float64 `json:"total_amount"`
}

func toJobResponse(job *models.Job) jobResponse {
	return jobResponse{Job: *job, TotalAmount: job.TotalAmount()}
}

func (s *Server) handleListJobs(c *gin.Context) {
	// List views default to today's records; exports default to all.
	window := report.Resolve(c.DefaultQuery("filter", report.FilterToday), s.now())

	jobs, err := s.jobs.List(window)
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, toJobResponse(&jobs[i]))
	}
	c.JSON(http.StatusOK, out)
}

type jobItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required"`
	Price       float64 `json:"price"`
}

type jobRequest struct {
	CustomerName  string           `json:"customer_name" binding:"required"`
	Status        string           `json:"status" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
	DateTime      *time.Time       `json:"date_time"`
	Items         []jobItemRequest `json:"items"`
}

// buildJob validates a job request and assembles the model. Totals are
// recomputed here and again in the repository; the client never supplies
// them.
func (s *Server) buildJob(req jobRequest, createdBy int64) (*models.Job, error) {
	if err := utils.ValidateJobStatus(req.Status); err != nil {
		return nil, models.NewValidationError("status", err.Error())
	}
	if err := utils.ValidatePaymentMethod(req.PaymentMethod); err != nil {
		return nil, models.NewValidationError("payment_method", err.Error())
	}

	job := &models.Job{
		CustomerName:  utils.SanitizeString(req.CustomerName),
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		DateTime:      s.now(),
		CreatedBy:     createdBy,
	}
	if req.DateTime != nil {
		job.DateTime = *req.DateTime
	}
	if job.CustomerName == "" {
		return nil, models.NewValidationError("customer_name", "customer name is required")
	}

	for i, item := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		if err := utils.ValidateDescription(item.Description); err != nil {
			return nil, models.NewValidationError(field+".description", err.Error())
		}
		if err := utils.ValidateQuantity(item.Quantity); err != nil {
			return nil, models.NewValidationError(field+".quantity", err.Error())
		}
		if err := utils.ValidateAmount(item.Price); err != nil {
			return nil, models.NewValidationError(field+".price", err.Error())
		}
		job.Items = append(job.Items,
			models.NewJobItem(0, utils.SanitizeString(item.Description), item.Quantity, item.Price))
	}

	return job, nil
}

func (s *Server) handleCreateJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "customer_name, status and payment_method are required"})
		return
	}

	job, err := s.buildJob(req, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.jobs.Create(job); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toJobResponse(job))
}

func (s *Server) handleGetJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	job, err := s.jobs.GetByID(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

func (s *Server) handleUpdateJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "customer_name, status and payment_method are required"})
		return
	}

	existing, err := s.jobs.GetByID(id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	job, err := s.buildJob(req, existing.CreatedBy)
	if err != nil {
		s.writeError(c, err)
		return
	}
	job.ID = id
	if req.DateTime == nil {
		job.DateTime = existing.DateTime
	}

	// Items are replaced wholesale: the previous set is deleted and the
	// submitted set inserted in its place.
	if err := s.jobs.Update(job); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

func (s *Server) handleDeleteJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.jobs.Delete(id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "job deleted"})
}

func (s *Server) handleListExpenditures(c *gin.Context) {
	window := report.Resolve(c.DefaultQuery("filter", report.FilterToday), s.now())

	expenditures, err := s.expenditures.List(window)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if expenditures == nil {
		expenditures = []models.Expenditure{}
	}
	c.JSON(http.StatusOK, expenditures)
}

type expenditureRequest struct {
	Description string     `json:"description" binding:"required"`
	Quantity    float64    `json:"quantity" binding:"required"`
	AmountUsed  float64    `json:"amount_used"`
	DateTime    *time.Time `json:"date_time"`
}

func (s *Server) buildExpenditure(req expenditureRequest, createdBy int64) (*models.Expenditure, error) {
	if err := utils.ValidateDescription(req.Description); err != nil {
		return nil, models.NewValidationError("description", err.Error())
	}
	if err := utils.ValidateQuantity(req.Quantity); err != nil {
		return nil, models.NewValidationError("quantity", err.Error())
	}
	if err := utils.ValidateAmount(req.AmountUsed); err != nil {
		return nil, models.NewValidationError("amount_used", err.Error())
	}

	exp := models.NewExpenditure(utils.SanitizeString(req.Description), req.Quantity, req.AmountUsed, createdBy)
	exp.DateTime = s.now()
	if req.DateTime != nil {
		exp.DateTime = *req.DateTime
	}
	return &exp, nil
}

func (s *Server) handleCreateExpenditure(c *gin.Context) {
	var req expenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "description and quantity are required"})
		return
	}

	exp, err := s.buildExpenditure(req, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.expenditures.Create(exp); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (s *Server) handleGetExpenditure(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	exp, err := s.expenditures.GetByID(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (s *Server) handleUpdateExpenditure(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req expenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "description and quantity are required"})
		return
	}

	existing, err := s.expenditures.GetByID(id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	exp, err := s.buildExpenditure(req, existing.CreatedBy)
	if err != nil {
		s.writeError(c, err)
		return
	}
	exp.ID = id
	if req.DateTime == nil {
		exp.DateTime = existing.DateTime
	}

	if err := s.expenditures.Update(exp); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (s *Server) handleDeleteExpenditure(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.expenditures.Delete(id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expenditure deleted"})
}

// exportFormat resolves the format query parameter to a projection target
func exportFormat(c *gin.Context) (string, bool) {
	format := c.DefaultQuery("format", report.TargetExcel)
	if format != report.TargetExcel && format != report.TargetPDF {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "format must be excel or pdf"})
		return "", false
	}
	return format, true
}

func (s *Server) handleExportJobs(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}

	filter := c.DefaultQuery("filter", report.FilterAll)
	now := s.now()

	jobs, err := s.jobs.List(report.Resolve(filter, now))
	if err != nil {
		s.writeError(c, err)
		return
	}
	rows := report.ProjectJobs(jobs, format)

	var data []byte
	var contentType, ext string
	switch format {
	case report.TargetPDF:
		data, err = s.pdfWriter.WriteJobs(rows, filter)
		contentType, ext = export.PDFContentType, "pdf"
	default:
		data, err = s.excelWriter.WriteJobs(rows)
		contentType, ext = export.ExcelContentType, "xlsx"
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.sendAttachment(c, contentType, export.Filename("jobs", filter, now, ext), data)
}

func (s *Server) handleExportExpenditures(c *gin.Context) {
	format, ok := exportFormat(c)
	if !ok {
		return
	}

	filter := c.DefaultQuery("filter", report.FilterAll)
	now := s.now()

	expenditures, err := s.expenditures.List(report.Resolve(filter, now))
	if err != nil {
		s.writeError(c, err)
		return
	}
	rows := report.ProjectExpenditures(expenditures, format)

	var data []byte
	var contentType, ext string
	switch format {
	case report.TargetPDF:
		data, err = s.pdfWriter.WriteExpenditures(rows, filter)
		contentType, ext = export.PDFContentType, "pdf"
	default:
		data, err = s.excelWriter.WriteExpenditures(rows)
		contentType, ext = export.ExcelContentType, "xlsx"
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.sendAttachment(c, contentType, export.Filename("expenditures", filter, now, ext), data)
}

func (s *Server) sendAttachment(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
