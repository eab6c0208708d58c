package api

import (
	"errors"
	"net/http"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberHandler holds the member service dependency.
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// --- DTOs ---

type CreateMemberRequest struct {
	Name                string `json:"name" binding:"required"`
	Mobile              string `json:"mobile" binding:"required"`
	Email               string `json:"email" binding:"omitempty,email"`
	DOB                 string `json:"dob" binding:"omitempty"`
	Gender              string `json:"gender" binding:"omitempty,oneof=male female other"`
	Address             string `json:"address"`
	MembershipPlanID    string `json:"membership_plan_id" binding:"omitempty"`
	MembershipStartDate string `json:"membership_start_date" binding:"required"`
	MembershipEndDate   string `json:"membership_end_date" binding:"required"`
}

type UpdateMemberRequest struct {
	Name                string `json:"name" binding:"required"`
	Mobile              string `json:"mobile" binding:"required"`
	Email               string `json:"email" binding:"omitempty,email"`
	DOB                 string `json:"dob" binding:"omitempty"`
	Gender              string `json:"gender" binding:"omitempty,oneof=male female other"`
	Address             string `json:"address"`
	Active              *bool  `json:"active"`
	MembershipStartDate string `json:"membership_start_date" binding:"required"`
	MembershipEndDate   string `json:"membership_end_date" binding:"required"`
}

type ConfirmPhotoUploadRequest struct {
	ObjectKey string `json:"object_key" binding:"required"`
}

type MemberResponse struct {
	ID                  string      `json:"id"`
	GymID               string      `json:"gym_id"`
	Name                string      `json:"name"`
	Mobile              string      `json:"mobile"`
	Email               string      `json:"email,omitempty"`
	DOB                 domain.Date `json:"dob,omitempty"`
	Gender              string      `json:"gender,omitempty"`
	Address             string      `json:"address,omitempty"`
	JoinDate            domain.Date `json:"join_date"`
	Active              bool        `json:"active"`
	MembershipStartDate domain.Date `json:"membership_start_date"`
	MembershipEndDate   domain.Date `json:"membership_end_date"`
}

// MapMemberToResponse converts a domain.Member to MemberResponse DTO.
func MapMemberToResponse(member *domain.Member) MemberResponse {
	if member == nil {
		return MemberResponse{}
	}
	return MemberResponse{
		ID:                  member.ID.Hex(),
		GymID:               member.GymID.Hex(),
		Name:                member.Name,
		Mobile:              member.Mobile,
		Email:               member.Email,
		DOB:                 member.DOB,
		Gender:              member.Gender,
		Address:             member.Address,
		JoinDate:            member.JoinDate,
		Active:              member.Active,
		MembershipStartDate: member.MembershipStartDate,
		MembershipEndDate:   member.MembershipEndDate,
	}
}

func abortWithMemberError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMemberNotInGym):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidPhotoType), errors.Is(err, service.ErrInvalidObjectKey):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoPhoto):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// memberFromRequest builds a domain.Member from the create payload, parsing
// all wire dates. Returns a descriptive message on bad input.
func memberFromRequest(req CreateMemberRequest) (*domain.Member, string) {
	member := &domain.Member{
		Name:    req.Name,
		Mobile:  req.Mobile,
		Email:   req.Email,
		Gender:  req.Gender,
		Address: req.Address,
	}
	var err error
	if req.DOB != "" {
		if member.DOB, err = domain.ParseDate(req.DOB); err != nil {
			return nil, "Invalid dob, expected YYYY-MM-DD."
		}
	}
	if req.MembershipPlanID != "" {
		planID, err := primitive.ObjectIDFromHex(req.MembershipPlanID)
		if err != nil {
			return nil, "Invalid membership_plan_id format."
		}
		member.MembershipPlanID = planID
	}
	if member.MembershipStartDate, err = domain.ParseDate(req.MembershipStartDate); err != nil {
		return nil, "Invalid membership_start_date, expected YYYY-MM-DD."
	}
	if member.MembershipEndDate, err = domain.ParseDate(req.MembershipEndDate); err != nil {
		return nil, "Invalid membership_end_date, expected YYYY-MM-DD."
	}
	if member.MembershipEndDate.Before(member.MembershipStartDate) {
		return nil, "membership_end_date must not be before membership_start_date."
	}
	return member, ""
}

// --- Handler Methods ---

// CreateMember godoc
// @Summary Enroll a new member in the tenant's gym
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMemberRequest true "Member details"
// @Success 201 {object} MemberResponse
// @Router /members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	member, msg := memberFromRequest(req)
	if msg != "" {
		abortWithError(c, http.StatusBadRequest, msg)
		return
	}

	created, err := h.memberService.CreateMember(c.Request.Context(), tenant, member)
	if err != nil {
		abortWithMemberError(c, err, "Failed to create member.")
		return
	}
	c.JSON(http.StatusCreated, MapMemberToResponse(created))
}

// ListMembers godoc
// @Summary List the tenant gym's members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MemberResponse
// @Router /members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	members, err := h.memberService.ListMembers(c.Request.Context(), tenant)
	if err != nil {
		abortWithMemberError(c, err, "Failed to list members.")
		return
	}
	responses := make([]MemberResponse, len(members))
	for i, m := range members {
		responses[i] = MapMemberToResponse(&m)
	}
	c.JSON(http.StatusOK, responses)
}

// GetMember godoc
// @Summary Get a single member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} MemberResponse
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}
	member, err := h.memberService.GetMember(c.Request.Context(), tenant, memberID)
	if err != nil {
		abortWithMemberError(c, err, "Failed to fetch member.")
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// UpdateMember godoc
// @Summary Update a member's details
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param request body UpdateMemberRequest true "Member details"
// @Success 200 {object} MemberResponse
// @Router /members/{id} [put]
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	member, msg := memberFromRequest(CreateMemberRequest{
		Name:                req.Name,
		Mobile:              req.Mobile,
		Email:               req.Email,
		DOB:                 req.DOB,
		Gender:              req.Gender,
		Address:             req.Address,
		MembershipStartDate: req.MembershipStartDate,
		MembershipEndDate:   req.MembershipEndDate,
	})
	if msg != "" {
		abortWithError(c, http.StatusBadRequest, msg)
		return
	}
	member.ID = memberID
	member.Active = true
	if req.Active != nil {
		member.Active = *req.Active
	}

	updated, err := h.memberService.UpdateMember(c.Request.Context(), tenant, member)
	if err != nil {
		abortWithMemberError(c, err, "Failed to update member.")
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(updated))
}

// RequestPhotoUploadURL godoc
// @Summary Request a presigned URL for uploading a member photo
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param contentType query string true "MIME type of the photo, e.g. image/jpeg"
// @Success 200 {object} service.PhotoUploadURLResponse
// @Router /members/{id}/photo/upload-url [get]
func (h *MemberHandler) RequestPhotoUploadURL(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}
	contentType := c.Query("contentType")

	resp, err := h.memberService.RequestPhotoUploadURL(c.Request.Context(), tenant, memberID, contentType)
	if err != nil {
		abortWithMemberError(c, err, "Failed to generate upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPhotoUpload godoc
// @Summary Confirm a completed photo upload
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param request body ConfirmPhotoUploadRequest true "Uploaded object key"
// @Success 200 {object} gin.H
// @Router /members/{id}/photo/confirm [post]
func (h *MemberHandler) ConfirmPhotoUpload(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}
	var req ConfirmPhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.memberService.ConfirmPhotoUpload(c.Request.Context(), tenant, memberID, req.ObjectKey); err != nil {
		abortWithMemberError(c, err, "Failed to confirm photo upload.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo confirmed."})
}

// GetPhotoDownloadURL godoc
// @Summary Get a temporary URL for viewing a member's photo
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} gin.H
// @Router /members/{id}/photo/download-url [get]
func (h *MemberHandler) GetPhotoDownloadURL(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	url, err := h.memberService.GetPhotoDownloadURL(c.Request.Context(), tenant, memberID)
	if err != nil {
		abortWithMemberError(c, err, "Failed to generate download URL.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
