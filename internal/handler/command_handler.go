// internal/handler/command_handler.go
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-service/internal/escpos"
	"escpos-service/internal/model"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// CommandHandler serves the command catalog, the encoder and print jobs
type CommandHandler struct {
	commandService *service.CommandService
	logger         *utils.ServiceLogger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(commandService *service.CommandService, logger *zap.Logger) *CommandHandler {
	return &CommandHandler{
		commandService: commandService,
		logger:         utils.NewServiceLogger(logger, "command-handler"),
	}
}

// RegisterRoutes registers command and printer routes
func (h *CommandHandler) RegisterRoutes(router *gin.RouterGroup) {
	commands := router.Group("/commands")
	{
		commands.GET("", h.ListCommands)
		commands.GET("/:name", h.GetCommand)
		commands.POST("/encode", h.Encode)
	}

	printer := router.Group("/printer")
	{
		printer.POST("/print", h.Print)
		printer.GET("/status", h.PrinterStatus)
	}
}

// ListCommands lists the command catalog
// @Summary List commands
// @Description List every ESC/POS command with its opcode, framing and parameters
// @Tags Commands
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.CommandInfo} "Command catalog"
// @Router /commands [get]
func (h *CommandHandler) ListCommands(c *gin.Context) {
	commands := h.commandService.Commands()
	utils.SuccessResponse(c, http.StatusOK, "Commands retrieved successfully", gin.H{
		"commands": commands,
		"total":    len(commands),
	})
}

// GetCommand returns one catalog entry
// @Summary Get command
// @Tags Commands
// @Produce json
// @Param name path string true "Command name"
// @Success 200 {object} utils.APIResponse{data=model.CommandInfo} "Command"
// @Failure 404 {object} utils.APIResponse "Unknown command"
// @Router /commands/{name} [get]
func (h *CommandHandler) GetCommand(c *gin.Context) {
	name := c.Param("name")
	info, ok := h.commandService.Command(name)
	if !ok {
		utils.ErrorResponseWithDetails(c, http.StatusNotFound, "Command not found", gin.H{"command": name})
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Command retrieved successfully", info)
}

// Encode encodes a list of commands into one job
// @Summary Encode commands
// @Description Encode an ordered list of commands into ESC/POS bytes
// @Tags Commands
// @Accept json
// @Produce json
// @Param request body model.EncodeRequest true "Commands to encode"
// @Success 200 {object} utils.APIResponse{data=model.Job} "Encoded job"
// @Failure 400 {object} utils.APIResponse{error=utils.APIError{details=model.EncodeFailure}} "Invalid command"
// @Failure 413 {object} utils.APIResponse "Request body too large"
// @Router /commands/encode [post]
func (h *CommandHandler) Encode(c *gin.Context) {
	var req model.EncodeRequest
	if !h.bind(c, &req) {
		return
	}

	job, err := h.commandService.Encode(&req)
	if err != nil {
		h.logger.Debug("Encode rejected", zap.Error(err), zap.String("request_id", utils.GetRequestID(c)))
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, "Invalid command", EncodeFailure(err))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Commands encoded successfully", job)
}

// Print encodes a list of commands and writes them to the printer
// @Summary Print commands
// @Description Encode commands and write them to the configured printer. Query commands read the reply back.
// @Tags Printer
// @Accept json
// @Produce json
// @Param request body model.EncodeRequest true "Commands to print"
// @Success 200 {object} utils.APIResponse{data=model.PrintResult} "Job printed"
// @Failure 400 {object} utils.APIResponse "Invalid command"
// @Failure 502 {object} utils.APIResponse "Printer error"
// @Failure 503 {object} utils.APIResponse "No printer configured"
// @Failure 504 {object} utils.APIResponse "Printer timed out"
// @Router /printer/print [post]
func (h *CommandHandler) Print(c *gin.Context) {
	var req model.EncodeRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.commandService.Print(c.Request.Context(), &req)
	if err != nil {
		h.writePrintError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Job printed successfully", result)
}

// PrinterStatus reports transport statistics and runs a status round trip
// @Summary Printer status
// @Tags Printer
// @Produce json
// @Success 200 {object} utils.APIResponse "Printer answered"
// @Failure 502 {object} utils.APIResponse "Printer did not answer"
// @Failure 503 {object} utils.APIResponse "No printer configured"
// @Router /printer/status [get]
func (h *CommandHandler) PrinterStatus(c *gin.Context) {
	if !h.commandService.HasPrinter() {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "No printer configured", service.ErrNoPrinter)
		return
	}

	stats := h.commandService.PrinterStats()
	if err := h.commandService.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("Printer ping failed", zap.Error(err))
		utils.ErrorResponseWithDetails(c, http.StatusBadGateway, "Printer did not answer", gin.H{
			"error": err.Error(),
			"stats": stats,
		})
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Printer is online", stats)
}

func (h *CommandHandler) bind(c *gin.Context, req *model.EncodeRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return false
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func (h *CommandHandler) writePrintError(c *gin.Context, err error) {
	var printerErr *service.PrinterError
	switch {
	case errors.Is(err, service.ErrNoPrinter):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "No printer configured", err)
	case errors.As(err, &printerErr):
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		h.logger.Error("Print job failed", zap.Error(err), zap.String("request_id", utils.GetRequestID(c)))
		utils.ErrorResponse(c, status, "Printer error", err)
	default:
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, "Invalid command", EncodeFailure(err))
	}
}

// EncodeFailure renders an encoding error for a response body. Typed errors keep their
// fields, anything else is reduced to its text.
func EncodeFailure(err error) interface{} {
	var cmdErr *service.CommandError
	if errors.As(err, &cmdErr) {
		return model.EncodeFailure{
			Index:   cmdErr.Index,
			Command: cmdErr.Command,
			Error:   errorDetail(cmdErr.Err),
		}
	}
	return errorDetail(err)
}

func errorDetail(err error) interface{} {
	var (
		rangeErr   *escpos.RangeError
		valueErr   *escpos.UnsupportedValueError
		payloadErr *escpos.InvalidPayloadError
		paramErr   *service.ParamError
	)
	switch {
	case errors.As(err, &rangeErr):
		return gin.H{"type": "range", "param": rangeErr.Param, "value": rangeErr.Value, "min": rangeErr.Min, "max": rangeErr.Max}
	case errors.As(err, &valueErr):
		return gin.H{"type": "unsupported_value", "param": valueErr.Param, "value": valueErr.Value}
	case errors.As(err, &payloadErr):
		return gin.H{"type": "invalid_payload", "reason": payloadErr.Reason, "detail": payloadErr.Detail}
	case errors.As(err, &paramErr):
		return gin.H{"type": "param", "param": paramErr.Param, "reason": paramErr.Reason}
	case errors.Is(err, service.ErrUnknownCommand):
		return gin.H{"type": "unknown_command", "message": err.Error()}
	default:
		return gin.H{"type": "error", "message": err.Error()}
	}
}
