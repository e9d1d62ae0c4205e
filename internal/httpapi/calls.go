package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"vox-console/internal/calls"
	"vox-console/internal/reporting"

	"github.com/gin-gonic/gin"
)

// ListCalls serves one page of call logs: ?page=&page_size=&assistant_id=.
// Each request drives its own pager, so state is per request.
func (h *Handlers) ListCalls(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	p := calls.NewPager(h.Calls, calls.PagerParams{
		ClientID:    cid,
		AssistantID: c.Query("assistant_id"),
		InitialPage: page,
		PageSize:    min(size, 100),
	})
	defer p.Close()
	p.Load(c.Request.Context())

	st := p.State()
	if st.Error != "" {
		c.JSON(http.StatusBadGateway, st)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handlers) GetCall(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	call, err := h.Calls.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if call.ClientID != cid {
		fail(c, errNotFound)
		return
	}
	c.JSON(http.StatusOK, call)
}

// CallsSummary aggregates call metrics: ?assistant_id=&from=&to= (RFC3339).
func (h *Handlers) CallsSummary(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	req := reporting.CallsSummaryRequest{ClientID: cid, AssistantID: c.Query("assistant_id")}
	var err error
	if req.Range.From, err = parseTime(c.Query("from")); err != nil {
		invalid(c, "from", msgInvalidTime)
		return
	}
	if req.Range.To, err = parseTime(c.Query("to")); err != nil {
		invalid(c, "to", msgInvalidTime)
		return
	}

	out, err := h.Reporting.CallsSummary(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidRequest) {
			invalid(c, "range", msgInvalidRange)
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

const (
	msgInvalidTime  = "Time must be RFC3339"
	msgInvalidRange = "Time range end must be after its start"
)

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
