package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kcrown/partybus/internal/domain"
	redisrepo "github.com/kcrown/partybus/internal/repository/redis"
	"github.com/kcrown/partybus/internal/service"
	"github.com/kcrown/partybus/internal/service/agents"
	"github.com/kcrown/partybus/internal/service/booking"
	"github.com/kcrown/partybus/internal/service/pricing"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Booking/admin view
	r.GET("/days/:day/seats", handleDaySeats(svcs))
	r.GET("/days/:day/availability", handleDayAvailability(svcs))
	r.GET("/days/:day/bookings", handleDayBookings(svcs))
	r.GET("/days/:day/price", handleGetDayPrice(svcs))
	r.PUT("/days/:day/price", handleSetDayPrice(svcs))
	r.GET("/prices", handleListPriceOverrides(svcs))

	r.POST("/bookings", handleCreateBooking(svcs, idem))
	r.DELETE("/bookings/:id/seats/:seat", handleRemoveSeat(svcs))
	r.PATCH("/bookings/:id/seats/:seat/price", handleEditSeatPrice(svcs))

	// Commission agents
	r.GET("/agents", handleListAgents(svcs))
	r.POST("/agents", handleCreateAgent(svcs))
	r.PUT("/agents/:id", handleUpdateAgent(svcs))
	r.DELETE("/agents/:id", handleDeleteAgent(svcs))

	// Profits/analytics view
	r.GET("/profits", handleProfits(svcs))

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Seat map and availability for a day
// @Param    day  path  string  true  "Day (YYYY-MM-DD)"
// @Success  200  {object}  booking.SeatMap
// @Failure  400  {object}  ErrorResponse
// @Router   /days/{day}/seats [get]
func handleDaySeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := parseDayParam(c)
		if !ok {
			return
		}
		sm, err := svcs.Booking.SeatMapForDay(c.Request.Context(), day)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, sm, "public, max-age=15", true)
	}
}

// @Summary  Free seat numbers for a day, ascending
// @Param    day  path  string  true  "Day (YYYY-MM-DD)"
// @Success  200  {object}  AvailabilityResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /days/{day}/availability [get]
func handleDayAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := parseDayParam(c)
		if !ok {
			return
		}
		free, err := svcs.Booking.Available(c.Request.Context(), day)
		if err != nil {
			respondErr(c, err)
			return
		}
		resp := AvailabilityResponse{
			Day:        domain.DayKey(day),
			TotalSeats: svcs.Booking.TotalSeats(),
			Available:  free,
		}
		writeJSONWithCache(c, http.StatusOK, resp, "public, max-age=15", true)
	}
}

// @Summary  List a day's bookings
// @Param    day  path  string  true  "Day (YYYY-MM-DD)"
// @Success  200  {array}  BookingResponse
// @Router   /days/{day}/bookings [get]
func handleDayBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := parseDayParam(c)
		if !ok {
			return
		}
		bookings, err := svcs.Booking.ListByDay(c.Request.Context(), day)
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]BookingResponse, 0, len(bookings))
		for i := range bookings {
			out = append(out, bookingToResponse(&bookings[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Resolved per-seat price for a day
// @Param    day  path  string  true  "Day (YYYY-MM-DD)"
// @Success  200  {object}  DayPriceResponse
// @Router   /days/{day}/price [get]
func handleGetDayPrice(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := parseDayParam(c)
		if !ok {
			return
		}
		price, err := svcs.Pricing.PriceForDay(c.Request.Context(), day)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, DayPriceResponse{Day: domain.DayKey(day), Price: price})
	}
}

// @Summary  Set a day's per-seat price override
// @Param    day  path  string  true  "Day (YYYY-MM-DD)"
// @Param    req  body  SetPriceRequest true "payload"
// @Success  200  {object}  DayPriceResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /days/{day}/price [put]
func handleSetDayPrice(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, ok := parseDayParam(c)
		if !ok {
			return
		}
		var req SetPriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Pricing.SetPriceForDay(c.Request.Context(), day, req.Price); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, DayPriceResponse{Day: domain.DayKey(day), Price: req.Price})
	}
}

// @Summary  List all per-day price overrides
// @Success  200  {array}  DayPriceResponse
// @Router   /prices [get]
func handleListPriceOverrides(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		overrides, err := svcs.Pricing.ListOverrides(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]DayPriceResponse, 0, len(overrides))
		for _, p := range overrides {
			out = append(out, DayPriceResponse{Day: domain.DayKey(p.Date), Price: p.Price})
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Create booking (idempotent)
// @Param    req body  CreateBookingRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} BookingResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "seat conflict / not enough seats / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /bookings [post]
func handleCreateBooking(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		day, err := domain.ParseDay(req.Day)
		if err != nil {
			badRequest(c, "invalid day (YYYY-MM-DD)")
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(req.Day, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		rlKey := "ip:" + c.ClientIP()

		b, err := svcs.Booking.Create(
			c.Request.Context(),
			day,
			req.UserName,
			booking.Request{Seats: req.Seats, Quantity: req.Quantity},
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := bookingToResponse(b)

		if idemStorageKey != "" && idem != nil {
			data, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(data))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Remove one seat from a booking
// @Param    id    path  string  true  "Booking ID"
// @Param    seat  path  int     true  "Seat number"
// @Success  204
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id}/seats/{seat} [delete]
func handleRemoveSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		seat, ok := parseIntParam(c, "seat")
		if !ok {
			return
		}
		if err := svcs.Booking.RemoveSeat(c.Request.Context(), c.Param("id"), seat); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Edit the stamped price of one booked seat
// @Param    id    path  string  true  "Booking ID"
// @Param    seat  path  int     true  "Seat number"
// @Param    req   body  EditSeatPriceRequest true "payload"
// @Success  204
// @Failure  400  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id}/seats/{seat}/price [patch]
func handleEditSeatPrice(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		seat, ok := parseIntParam(c, "seat")
		if !ok {
			return
		}
		var req EditSeatPriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Booking.EditSeatPrice(c.Request.Context(), c.Param("id"), seat, req.Price); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  List commission agents
// @Success  200  {array}  AgentResponse
// @Router   /agents [get]
func handleListAgents(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Agents.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]AgentResponse, 0, len(list))
		for _, a := range list {
			out = append(out, agentToResponse(a))
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Create commission agent
// @Param    req body  AgentRequest true "payload"
// @Success  201 {object} AgentResponse
// @Failure  400 {object} ErrorResponse
// @Router   /agents [post]
func handleCreateAgent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AgentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		applicable, err := parseOptionalDay(req.ApplicableDate)
		if err != nil {
			badRequest(c, "invalid applicable_date (YYYY-MM-DD)")
			return
		}
		a, err := svcs.Agents.Create(c.Request.Context(), req.Name, req.Percentage, applicable)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, agentToResponse(*a))
	}
}

// @Summary  Update commission agent
// @Param    id   path  string  true  "Agent ID"
// @Param    req  body  AgentRequest true "payload"
// @Success  200  {object} AgentResponse
// @Failure  404  {object} ErrorResponse
// @Router   /agents/{id} [put]
func handleUpdateAgent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AgentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		applicable, err := parseOptionalDay(req.ApplicableDate)
		if err != nil {
			badRequest(c, "invalid applicable_date (YYYY-MM-DD)")
			return
		}
		a, err := svcs.Agents.Update(c.Request.Context(), c.Param("id"), req.Name, req.Percentage, applicable)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, agentToResponse(*a))
	}
}

// @Summary  Delete commission agent
// @Param    id  path  string  true  "Agent ID"
// @Success  204
// @Failure  404  {object} ErrorResponse
// @Router   /agents/{id} [delete]
func handleDeleteAgent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Agents.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Daily, monthly, and per-agent profit report
// @Success  200  {object}  domain.ProfitReport
// @Router   /profits [get]
func handleProfits(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svcs.Profits.Report(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, report, "public, max-age=60", true)
	}
}

// --- Helpers ---

func parseDayParam(c *gin.Context) (day time.Time, ok bool) {
	day, err := domain.ParseDay(c.Param("day"))
	if err != nil {
		badRequest(c, "invalid day (YYYY-MM-DD)")
		return time.Time{}, false
	}
	return day, true
}

func parseIntParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var invalidQty booking.InvalidQuantityError
	var invalidSeats booking.InvalidSeatsError
	var insufficient booking.InsufficientCapacityError
	var conflict booking.SeatConflictError
	var invalidPrice pricing.InvalidPriceError
	var invalidPct agents.InvalidPercentageError

	switch {
	// booking service
	case errors.Is(err, booking.ErrMissingName):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "booking name is required"})
		return
	case errors.As(err, &invalidQty):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidQty.Error()})
		return
	case errors.As(err, &invalidSeats):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidSeats.Error()})
		return
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:     insufficient.Error(),
			Available: &insufficient.Available,
		})
		return
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:          conflict.Error(),
			StillAvailable: conflict.StillAvailable,
		})
		return
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	case errors.Is(err, booking.ErrSeatNotInBooking):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat is not part of the booking"})
		return
	case errors.Is(err, booking.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited, try again later"})
		return
	// pricing service
	case errors.As(err, &invalidPrice):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidPrice.Error()})
		return
	// agents service
	case errors.Is(err, agents.ErrMissingName):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "agent name is required"})
		return
	case errors.As(err, &invalidPct):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidPct.Error()})
		return
	case errors.Is(err, agents.ErrAgentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "agent not found"})
		return
	}

	// anything else is a failure talking to the store
	c.Error(err) //nolint:errcheck
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable"})
}
