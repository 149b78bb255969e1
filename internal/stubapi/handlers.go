package stubapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/session"
	"github.com/paracurve/claimdesk/internal/workflow"
)

// handlers holds the route implementations.
type handlers struct {
	store  *memoryStore
	logger *zap.Logger
}

// fieldError is one entry of the {"errors": [...]} validation shape.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// transitionRequest is the body of a workflow action post.
type transitionRequest struct {
	Action  string `json:"action"`
	Comment string `json:"comment"`
}

// message writes the {"message": ...} error shape.
func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// fieldErrors writes the {"errors": [...]} validation shape.
func fieldErrors(c *gin.Context, errs []fieldError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
}

// writeStoreError maps store errors onto the wire: unknown ids are 404s,
// state conflicts are 422s carrying the reason as the message.
func (h *handlers) writeStoreError(c *gin.Context, err error) {
	var se *stateError
	switch {
	case errors.Is(err, errNotFound):
		message(c, http.StatusNotFound, "not found")
	case errors.As(err, &se):
		message(c, http.StatusUnprocessableEntity, se.msg)
	default:
		h.logger.Error("Unexpected store error", zap.Error(err))
		message(c, http.StatusInternalServerError, "internal error")
	}
}

// demoActor stands in for callers whose token is opaque, such as the plain
// strings tests log in with.
var demoActor = domain.User{ID: "emp-demo", TenantID: "tenant-demo", Name: "Demo User", Role: domain.RoleAdmin, Department: "Engineering"}

// actor decodes the caller identity from the bearer token. The stub never
// verifies signatures; it trusts whatever claims the token carries and
// falls back to a generic admin for tokens that are not JWTs.
func (h *handlers) actor(c *gin.Context) domain.User {
	raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	var claims session.Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return demoActor
	}

	user := demoActor
	if claims.UserID != "" {
		user.ID = claims.UserID
	}
	if claims.TenantID != "" {
		user.TenantID = claims.TenantID
	}
	if claims.Name != "" {
		user.Name = claims.Name
	}
	user.Email = claims.Email
	if role, err := domain.ParseRole(claims.Role); err == nil {
		user.Role = role
	}
	return user
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handlers) listClaims(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listClaims())
}

func (h *handlers) getClaim(c *gin.Context) {
	claim, err := h.store.getClaim(c.Param("id"))
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (h *handlers) createClaim(c *gin.Context) {
	var in domain.ClaimInput
	if err := c.ShouldBindJSON(&in); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateClaimInput(in); len(errs) > 0 {
		fieldErrors(c, errs)
		return
	}
	c.JSON(http.StatusCreated, h.store.createClaim(in, h.actor(c)))
}

func (h *handlers) updateClaim(c *gin.Context) {
	var in domain.ClaimInput
	if err := c.ShouldBindJSON(&in); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateClaimInput(in); len(errs) > 0 {
		fieldErrors(c, errs)
		return
	}
	claim, err := h.store.updateClaim(c.Param("id"), in)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (h *handlers) deleteClaim(c *gin.Context) {
	if err := h.store.deleteClaim(c.Param("id")); err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) transitionClaim(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	action, err := workflow.ParseAction(req.Action)
	if err != nil {
		message(c, http.StatusUnprocessableEntity, fmt.Sprintf("unknown action %q", req.Action))
		return
	}
	claim, err := h.store.applyClaimTransition(c.Param("id"), action, h.actor(c), req.Comment)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (h *handlers) listAllowances(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listAllowances())
}

func (h *handlers) getAllowance(c *gin.Context) {
	allowance, err := h.store.getAllowance(c.Param("id"))
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, allowance)
}

func (h *handlers) createAllowance(c *gin.Context) {
	var in domain.AllowanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateAllowanceInput(in); len(errs) > 0 {
		fieldErrors(c, errs)
		return
	}
	c.JSON(http.StatusCreated, h.store.createAllowance(in, h.actor(c)))
}

func (h *handlers) updateAllowance(c *gin.Context) {
	var in domain.AllowanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateAllowanceInput(in); len(errs) > 0 {
		fieldErrors(c, errs)
		return
	}
	allowance, err := h.store.updateAllowance(c.Param("id"), in)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, allowance)
}

func (h *handlers) deleteAllowance(c *gin.Context) {
	if err := h.store.deleteAllowance(c.Param("id")); err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) transitionAllowance(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	action, err := workflow.ParseAction(req.Action)
	if err != nil {
		message(c, http.StatusUnprocessableEntity, fmt.Sprintf("unknown action %q", req.Action))
		return
	}
	allowance, err := h.store.applyAllowanceTransition(c.Param("id"), action, h.actor(c), req.Comment)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, allowance)
}

func (h *handlers) listPolicies(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listPolicies())
}

// postPolicy dispatches POST /policies/upload. The router cannot register
// the static "upload" segment beside the :id wildcard, so the handler
// checks the segment itself.
func (h *handlers) postPolicy(c *gin.Context) {
	if c.Param("id") != "upload" {
		message(c, http.StatusNotFound, "not found")
		return
	}
	h.uploadPolicy(c)
}

// uploadPolicy accepts the multipart policy upload. Only the metadata is
// kept; the stub has no document storage.
func (h *handlers) uploadPolicy(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		fieldErrors(c, []fieldError{{Field: "title", Message: "is required"}})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		fieldErrors(c, []fieldError{{Field: "file", Message: "is required"}})
		return
	}
	policy := h.store.createPolicy(title, c.PostForm("description"), file.Filename, h.actor(c))
	c.JSON(http.StatusCreated, policy)
}

func (h *handlers) approvePolicy(c *gin.Context) {
	policy, err := h.store.approvePolicy(c.Param("id"), h.actor(c))
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

func (h *handlers) listDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listDepartments())
}

func (h *handlers) createDepartment(c *gin.Context) {
	var in domain.DepartmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateDepartmentInput(in); len(errs) > 0 {
		fieldErrors(c, errs)
		return
	}
	c.JSON(http.StatusCreated, h.store.createDepartment(in, h.actor(c)))
}

func (h *handlers) updateDepartment(c *gin.Context) {
	var in domain.DepartmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateDepartmentInput(in); len(errs) > 0 {
		fieldErrors(c, errs)
		return
	}
	department, err := h.store.updateDepartment(c.Param("id"), in)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, department)
}

func (h *handlers) deleteDepartment(c *gin.Context) {
	if err := h.store.deleteDepartment(c.Param("id")); err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listIBUs(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listIBUs())
}

func (h *handlers) createIBU(c *gin.Context) {
	var in domain.IBUInput
	if err := c.ShouldBindJSON(&in); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateIBUInput(in); len(errs) > 0 {
		fieldErrors(c, errs)
		return
	}
	c.JSON(http.StatusCreated, h.store.createIBU(in, h.actor(c)))
}

func (h *handlers) updateIBU(c *gin.Context) {
	var in domain.IBUInput
	if err := c.ShouldBindJSON(&in); err != nil {
		message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateIBUInput(in); len(errs) > 0 {
		fieldErrors(c, errs)
		return
	}
	ibu, err := h.store.updateIBU(c.Param("id"), in)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, ibu)
}

func (h *handlers) deleteIBU(c *gin.Context) {
	if err := h.store.deleteIBU(c.Param("id")); err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listProjects(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listProjects())
}

func (h *handlers) listEmployees(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listEmployees())
}

func validateClaimInput(in domain.ClaimInput) []fieldError {
	var errs []fieldError
	if in.Type == "" {
		errs = append(errs, fieldError{Field: "claim_type", Message: "is required"})
	}
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, fieldError{Field: "description", Message: "is required"})
	}
	if in.Amount <= 0 {
		errs = append(errs, fieldError{Field: "amount", Message: "must be positive"})
	}
	if len(in.Currency) != 3 {
		errs = append(errs, fieldError{Field: "currency", Message: "must be a 3-letter code"})
	}
	return errs
}

func validateAllowanceInput(in domain.AllowanceInput) []fieldError {
	var errs []fieldError
	if in.Type == "" {
		errs = append(errs, fieldError{Field: "allowance_type", Message: "is required"})
	}
	if _, err := time.Parse("2006-01", in.Period); err != nil {
		errs = append(errs, fieldError{Field: "period", Message: "must be YYYY-MM"})
	}
	if in.Amount <= 0 {
		errs = append(errs, fieldError{Field: "amount", Message: "must be positive"})
	}
	if len(in.Currency) != 3 {
		errs = append(errs, fieldError{Field: "currency", Message: "must be a 3-letter code"})
	}
	return errs
}

func validateDepartmentInput(in domain.DepartmentInput) []fieldError {
	var errs []fieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, fieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(in.Code) == "" {
		errs = append(errs, fieldError{Field: "code", Message: "is required"})
	}
	return errs
}

func validateIBUInput(in domain.IBUInput) []fieldError {
	var errs []fieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, fieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(in.Code) == "" {
		errs = append(errs, fieldError{Field: "code", Message: "is required"})
	}
	if in.Currency != "" && len(in.Currency) != 3 {
		errs = append(errs, fieldError{Field: "currency", Message: "must be a 3-letter code"})
	}
	return errs
}
