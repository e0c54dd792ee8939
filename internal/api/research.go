package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/models"
)

type groupRequest struct {
	KgcID     *int64 `json:"kgcId" binding:"required"`
	GroupName string `json:"groupName" binding:"required"`
	Country   string `json:"country" binding:"required"`
	StartYear *int64 `json:"startYear"`
	EndYear   *int64 `json:"endYear"`
}

// Update DTOs omit the natural key; identity comes from the path.
type updateGroupRequest struct {
	GroupName string `json:"groupName" binding:"required"`
	Country   string `json:"country" binding:"required"`
	StartYear *int64 `json:"startYear"`
	EndYear   *int64 `json:"endYear"`
}

type updateOrganizationRequest struct {
	KgcID     *int64 `json:"kgcId"`
	FacName   string `json:"facName" binding:"required"`
	StartYear *int64 `json:"startYear"`
	EndYear   *int64 `json:"endYear"`
}

type organizationRequest struct {
	FacID     *int64 `json:"facId" binding:"required"`
	KgcID     *int64 `json:"kgcId" binding:"required"`
	FacName   string `json:"facName" binding:"required"`
	StartYear *int64 `json:"startYear"`
	EndYear   *int64 `json:"endYear"`
}

type violentTacticRequest struct {
	ID                   int64  `json:"id"`
	FacID                *int64 `json:"facId" binding:"required"`
	Year                 int    `json:"year"`
	AgainstState         int    `json:"againstState"`
	AgainstStateFatal    int    `json:"againstStateFatal"`
	AgainstOrg           int    `json:"againstOrg"`
	AgainstOrgFatal      int    `json:"againstOrgFatal"`
	AgainstIngroup       int    `json:"againstIngroup"`
	AgainstIngroupFatal  int    `json:"againstIngroupFatal"`
	AgainstOutgroup      int    `json:"againstOutgroup"`
	AgainstOutgroupFatal int    `json:"againstOutgroupFatal"`
}

type nonviolentTacticRequest struct {
	ID                      int64  `json:"id"`
	FacID                   *int64 `json:"facId" binding:"required"`
	Year                    int    `json:"year"`
	EconomicNoncooperation  int    `json:"economicNoncooperation"`
	ProtestDemonstration    int    `json:"protestDemonstration"`
	NonviolentIntervention  int    `json:"nonviolentIntervention"`
	SocialNoncooperation    int    `json:"socialNoncooperation"`
	InstitutionalAction     int    `json:"institutionalAction"`
	PoliticalNoncooperation int    `json:"politicalNoncooperation"`
}

func toNullInt(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

// decodeSingleOrBatch reads the request body and unmarshals it into a slice
// of out's element type, accepting either a single JSON object or an array.
func decodeSingleOrBatch(c *gin.Context, out interface{}) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err == nil {
		return nil
	}
	// Not an array; wrap a lone object
	wrapped := append([]byte{'['}, body...)
	wrapped = append(wrapped, ']')
	return json.Unmarshal(wrapped, out)
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func batchError(c *gin.Context, err error, missingMsg string) {
	switch err {
	case db.ErrDuplicate:
		badRequest(c, "duplicate natural key in batch or database")
	case db.ErrMissingTarget:
		badRequest(c, missingMsg)
	default:
		internalError(c, err)
	}
}

// --- Groups ---

func (s *Server) createGroups(c *gin.Context) {
	var reqs []groupRequest
	if err := decodeSingleOrBatch(c, &reqs); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if len(reqs) == 0 {
		badRequest(c, "empty batch")
		return
	}

	groups := make([]*models.Group, 0, len(reqs))
	for _, req := range reqs {
		if req.KgcID == nil || req.GroupName == "" || req.Country == "" {
			badRequest(c, "kgcId, groupName and country are required")
			return
		}
		groups = append(groups, &models.Group{
			KgcID:     *req.KgcID,
			GroupName: req.GroupName,
			Country:   req.Country,
			StartYear: toNullInt(req.StartYear),
			EndYear:   toNullInt(req.EndYear),
		})
	}

	if err := s.groups.CreateBatch(c.Request.Context(), groups); err != nil {
		batchError(c, err, "referenced record does not exist")
		return
	}

	items := make([]gin.H, 0, len(groups))
	for _, g := range groups {
		items = append(items, renderGroup(g))
	}
	c.JSON(http.StatusCreated, gin.H{"groups": items})
}

func (s *Server) listGroups(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var groups []*models.Group
	total, err := paginate(s.groups.Query(c.Request.Context()), p, &groups)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(groups))
	for _, g := range groups {
		items = append(items, renderGroup(g))
	}
	c.JSON(http.StatusOK, collection(c, "groups", items, p, total))
}

func (s *Server) getGroup(c *gin.Context) {
	kgcID, ok := int64Param(c, "kgcId")
	if !ok {
		return
	}
	group, err := s.groups.GetByKgcID(c.Request.Context(), kgcID)
	if err != nil {
		internalError(c, err)
		return
	}
	if group == nil {
		notFound(c, "group not found")
		return
	}
	c.JSON(http.StatusOK, renderGroup(group))
}

func (s *Server) updateGroup(c *gin.Context) {
	kgcID, ok := int64Param(c, "kgcId")
	if !ok {
		return
	}

	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	group, err := s.groups.GetByKgcID(ctx, kgcID)
	if err != nil {
		internalError(c, err)
		return
	}
	if group == nil {
		notFound(c, "group not found")
		return
	}

	group.GroupName = req.GroupName
	group.Country = req.Country
	group.StartYear = toNullInt(req.StartYear)
	group.EndYear = toNullInt(req.EndYear)

	if err := s.groups.Update(ctx, group); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderGroup(group))
}

func (s *Server) deleteGroup(c *gin.Context) {
	kgcID, ok := int64Param(c, "kgcId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	group, err := s.groups.GetByKgcID(ctx, kgcID)
	if err != nil {
		internalError(c, err)
		return
	}
	if group == nil {
		notFound(c, "group not found")
		return
	}

	if err := s.groups.Delete(ctx, group); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listGroupOrganizations returns the organizations within a group
func (s *Server) listGroupOrganizations(c *gin.Context) {
	kgcID, ok := int64Param(c, "kgcId")
	if !ok {
		return
	}
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	group, err := s.groups.GetByKgcID(ctx, kgcID)
	if err != nil {
		internalError(c, err)
		return
	}
	if group == nil {
		notFound(c, "group not found")
		return
	}

	var orgs []*models.Organization
	total, err := paginate(s.orgs.ByGroupQuery(ctx, kgcID), p, &orgs)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(orgs))
	for _, o := range orgs {
		items = append(items, renderOrganization(o))
	}
	c.JSON(http.StatusOK, collection(c, "organizations", items, p, total))
}

// --- Organizations ---

func (s *Server) createOrganizations(c *gin.Context) {
	var reqs []organizationRequest
	if err := decodeSingleOrBatch(c, &reqs); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if len(reqs) == 0 {
		badRequest(c, "empty batch")
		return
	}

	orgs := make([]*models.Organization, 0, len(reqs))
	for _, req := range reqs {
		if req.FacID == nil || req.KgcID == nil || req.FacName == "" {
			badRequest(c, "facId, kgcId and facName are required")
			return
		}
		orgs = append(orgs, &models.Organization{
			FacID:     *req.FacID,
			KgcID:     *req.KgcID,
			FacName:   req.FacName,
			StartYear: toNullInt(req.StartYear),
			EndYear:   toNullInt(req.EndYear),
		})
	}

	if err := s.orgs.CreateBatch(c.Request.Context(), orgs); err != nil {
		batchError(c, err, "referenced group does not exist")
		return
	}

	items := make([]gin.H, 0, len(orgs))
	for _, o := range orgs {
		items = append(items, renderOrganization(o))
	}
	c.JSON(http.StatusCreated, gin.H{"organizations": items})
}

func (s *Server) listOrganizations(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var orgs []*models.Organization
	total, err := paginate(s.orgs.Query(c.Request.Context()), p, &orgs)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(orgs))
	for _, o := range orgs {
		items = append(items, renderOrganization(o))
	}
	c.JSON(http.StatusOK, collection(c, "organizations", items, p, total))
}

func (s *Server) getOrganization(c *gin.Context) {
	facID, ok := int64Param(c, "facId")
	if !ok {
		return
	}
	org, err := s.orgs.GetByFacID(c.Request.Context(), facID)
	if err != nil {
		internalError(c, err)
		return
	}
	if org == nil {
		notFound(c, "organization not found")
		return
	}
	c.JSON(http.StatusOK, renderOrganization(org))
}

func (s *Server) updateOrganization(c *gin.Context) {
	facID, ok := int64Param(c, "facId")
	if !ok {
		return
	}

	var req updateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	org, err := s.orgs.GetByFacID(ctx, facID)
	if err != nil {
		internalError(c, err)
		return
	}
	if org == nil {
		notFound(c, "organization not found")
		return
	}

	if req.KgcID != nil && *req.KgcID != org.KgcID {
		group, err := s.groups.GetByKgcID(ctx, *req.KgcID)
		if err != nil {
			internalError(c, err)
			return
		}
		if group == nil {
			badRequest(c, "referenced group does not exist")
			return
		}
		org.KgcID = *req.KgcID
	}
	org.FacName = req.FacName
	org.StartYear = toNullInt(req.StartYear)
	org.EndYear = toNullInt(req.EndYear)

	if err := s.orgs.Update(ctx, org); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderOrganization(org))
}

// deleteOrganization removes the organization and its tactics rows
func (s *Server) deleteOrganization(c *gin.Context) {
	facID, ok := int64Param(c, "facId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	org, err := s.orgs.GetByFacID(ctx, facID)
	if err != nil {
		internalError(c, err)
		return
	}
	if org == nil {
		notFound(c, "organization not found")
		return
	}

	if err := s.orgs.Delete(ctx, org); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Violent tactics ---

func (s *Server) createViolentTactics(c *gin.Context) {
	var reqs []violentTacticRequest
	if err := decodeSingleOrBatch(c, &reqs); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if len(reqs) == 0 {
		badRequest(c, "empty batch")
		return
	}

	tactics := make([]*models.ViolentTactic, 0, len(reqs))
	for _, req := range reqs {
		if req.FacID == nil {
			badRequest(c, "facId is required")
			return
		}
		tactics = append(tactics, &models.ViolentTactic{
			ID:                   req.ID,
			FacID:                *req.FacID,
			Year:                 req.Year,
			AgainstState:         req.AgainstState,
			AgainstStateFatal:    req.AgainstStateFatal,
			AgainstOrg:           req.AgainstOrg,
			AgainstOrgFatal:      req.AgainstOrgFatal,
			AgainstIngroup:       req.AgainstIngroup,
			AgainstIngroupFatal:  req.AgainstIngroupFatal,
			AgainstOutgroup:      req.AgainstOutgroup,
			AgainstOutgroupFatal: req.AgainstOutgroupFatal,
		})
	}

	if err := s.violent.CreateBatch(c.Request.Context(), tactics); err != nil {
		batchError(c, err, "referenced organization does not exist")
		return
	}

	items := make([]gin.H, 0, len(tactics))
	for _, t := range tactics {
		items = append(items, renderViolentTactic(t))
	}
	c.JSON(http.StatusCreated, gin.H{"violentTactics": items})
}

func (s *Server) listViolentTactics(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var tactics []*models.ViolentTactic
	total, err := paginate(s.violent.Query(c.Request.Context()), p, &tactics)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(tactics))
	for _, t := range tactics {
		items = append(items, renderViolentTactic(t))
	}
	c.JSON(http.StatusOK, collection(c, "violentTactics", items, p, total))
}

func (s *Server) getViolentTactic(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	tactic, err := s.violent.GetByID(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	if tactic == nil {
		notFound(c, "violent tactic record not found")
		return
	}
	c.JSON(http.StatusOK, renderViolentTactic(tactic))
}

func (s *Server) updateViolentTactic(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}

	var req violentTacticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	tactic, err := s.violent.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if tactic == nil {
		notFound(c, "violent tactic record not found")
		return
	}

	tactic.Year = req.Year
	tactic.AgainstState = req.AgainstState
	tactic.AgainstStateFatal = req.AgainstStateFatal
	tactic.AgainstOrg = req.AgainstOrg
	tactic.AgainstOrgFatal = req.AgainstOrgFatal
	tactic.AgainstIngroup = req.AgainstIngroup
	tactic.AgainstIngroupFatal = req.AgainstIngroupFatal
	tactic.AgainstOutgroup = req.AgainstOutgroup
	tactic.AgainstOutgroupFatal = req.AgainstOutgroupFatal

	if err := s.violent.Update(ctx, tactic); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderViolentTactic(tactic))
}

func (s *Server) deleteViolentTactic(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tactic, err := s.violent.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if tactic == nil {
		notFound(c, "violent tactic record not found")
		return
	}

	if err := s.violent.Delete(ctx, tactic); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listOrganizationViolentTactics returns an organization's violent-tactic rows
func (s *Server) listOrganizationViolentTactics(c *gin.Context) {
	facID, ok := int64Param(c, "facId")
	if !ok {
		return
	}
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	org, err := s.orgs.GetByFacID(ctx, facID)
	if err != nil {
		internalError(c, err)
		return
	}
	if org == nil {
		notFound(c, "organization not found")
		return
	}

	var tactics []*models.ViolentTactic
	total, err := paginate(s.violent.ByOrganizationQuery(ctx, facID), p, &tactics)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(tactics))
	for _, t := range tactics {
		items = append(items, renderViolentTactic(t))
	}
	c.JSON(http.StatusOK, collection(c, "violentTactics", items, p, total))
}

// --- Nonviolent tactics ---

func (s *Server) createNonviolentTactics(c *gin.Context) {
	var reqs []nonviolentTacticRequest
	if err := decodeSingleOrBatch(c, &reqs); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if len(reqs) == 0 {
		badRequest(c, "empty batch")
		return
	}

	tactics := make([]*models.NonviolentTactic, 0, len(reqs))
	for _, req := range reqs {
		if req.FacID == nil {
			badRequest(c, "facId is required")
			return
		}
		tactics = append(tactics, &models.NonviolentTactic{
			ID:                      req.ID,
			FacID:                   *req.FacID,
			Year:                    req.Year,
			EconomicNoncooperation:  req.EconomicNoncooperation,
			ProtestDemonstration:    req.ProtestDemonstration,
			NonviolentIntervention:  req.NonviolentIntervention,
			SocialNoncooperation:    req.SocialNoncooperation,
			InstitutionalAction:     req.InstitutionalAction,
			PoliticalNoncooperation: req.PoliticalNoncooperation,
		})
	}

	if err := s.nonviolent.CreateBatch(c.Request.Context(), tactics); err != nil {
		batchError(c, err, "referenced organization does not exist")
		return
	}

	items := make([]gin.H, 0, len(tactics))
	for _, t := range tactics {
		items = append(items, renderNonviolentTactic(t))
	}
	c.JSON(http.StatusCreated, gin.H{"nonviolentTactics": items})
}

func (s *Server) listNonviolentTactics(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var tactics []*models.NonviolentTactic
	total, err := paginate(s.nonviolent.Query(c.Request.Context()), p, &tactics)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(tactics))
	for _, t := range tactics {
		items = append(items, renderNonviolentTactic(t))
	}
	c.JSON(http.StatusOK, collection(c, "nonviolentTactics", items, p, total))
}

func (s *Server) getNonviolentTactic(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	tactic, err := s.nonviolent.GetByID(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	if tactic == nil {
		notFound(c, "nonviolent tactic record not found")
		return
	}
	c.JSON(http.StatusOK, renderNonviolentTactic(tactic))
}

func (s *Server) updateNonviolentTactic(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}

	var req nonviolentTacticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	tactic, err := s.nonviolent.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if tactic == nil {
		notFound(c, "nonviolent tactic record not found")
		return
	}

	tactic.Year = req.Year
	tactic.EconomicNoncooperation = req.EconomicNoncooperation
	tactic.ProtestDemonstration = req.ProtestDemonstration
	tactic.NonviolentIntervention = req.NonviolentIntervention
	tactic.SocialNoncooperation = req.SocialNoncooperation
	tactic.InstitutionalAction = req.InstitutionalAction
	tactic.PoliticalNoncooperation = req.PoliticalNoncooperation

	if err := s.nonviolent.Update(ctx, tactic); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, renderNonviolentTactic(tactic))
}

func (s *Server) deleteNonviolentTactic(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tactic, err := s.nonviolent.GetByID(ctx, id)
	if err != nil {
		internalError(c, err)
		return
	}
	if tactic == nil {
		notFound(c, "nonviolent tactic record not found")
		return
	}

	if err := s.nonviolent.Delete(ctx, tactic); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listOrganizationNonviolentTactics returns an organization's nonviolent-tactic rows
func (s *Server) listOrganizationNonviolentTactics(c *gin.Context) {
	facID, ok := int64Param(c, "facId")
	if !ok {
		return
	}
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	org, err := s.orgs.GetByFacID(ctx, facID)
	if err != nil {
		internalError(c, err)
		return
	}
	if org == nil {
		notFound(c, "organization not found")
		return
	}

	var tactics []*models.NonviolentTactic
	total, err := paginate(s.nonviolent.ByOrganizationQuery(ctx, facID), p, &tactics)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(tactics))
	for _, t := range tactics {
		items = append(items, renderNonviolentTactic(t))
	}
	c.JSON(http.StatusOK, collection(c, "nonviolentTactics", items, p, total))
}
