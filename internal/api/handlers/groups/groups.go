package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamyartha/internal/api/handlers"
	"gamyartha/internal/models"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/pkg/utils"
)

// FUNC TO CREATE A GROUP
func CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var newGroup models.Group
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&newGroup); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	newGroup.Name = strings.TrimSpace(newGroup.Name)
	if newGroup.Name == "" || newGroup.Description == "" {
		utils.WriteError(w, "group name and description is required", http.StatusBadRequest)
		return
	}

	if len(newGroup.Name) > 100 || len(newGroup.Description) > 500 {
		utils.WriteError(w, "name or description too long", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO groups (name, description, created_by) VALUES (?, ?, ?)`,
		newGroup.Name, newGroup.Description, userID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create group: %v", err)
		utils.WriteError(w, "failed to create group", http.StatusInternalServerError)
		return
	}

	groupID, _ := res.LastInsertId()

	_, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id, role) VALUES (?, ?, 'admin')`,
		groupID, userID)
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to add group creator as member", http.StatusInternalServerError)
		return
	}

	// Members start with a zero ledger balance.
	_, err = tx.ExecContext(ctx, `INSERT INTO group_balances (group_id, user_id, balance) VALUES (?, ?, 0.00)`,
		groupID, userID)
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to initialize balance", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	newGroup.ID = int(groupID)
	newGroup.CreatedBy = userID

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "group created successfully",
		"data":    newGroup,
	})
}

// FUNC TO GET ALL GROUPS THE USER BELONGS TO
func GetMyGroupsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at
		FROM groups g
		JOIN group_members m ON g.id = m.group_id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC
	`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		utils.WriteError(w, "failed to retrieve groups", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt); err != nil {
			utils.Logger.Errorf("error scanning group: %v", err)
			utils.WriteError(w, "error reading groups", http.StatusInternalServerError)
			return
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing groups read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(groups),
		"data":   groups,
	})
}

// FUNC TO GET ONE GROUP WITH MEMBERS AND BALANCES
func GetGroupByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var group models.Group
	err = db.QueryRowContext(ctx, "SELECT id, name, description, created_by, created_at FROM groups WHERE id = ?", groupID).
		Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}

	if !isGroupMember(ctx, db, groupID, userID, w) {
		return
	}

	type memberView struct {
		UserID   int             `json:"user_id"`
		Username string          `json:"username"`
		Role     string          `json:"role"`
		Balance  decimal.Decimal `json:"balance"`
	}

	query := `
		SELECT m.user_id, u.username, m.role, b.balance
		FROM group_members m
		JOIN users u ON m.user_id = u.id
		JOIN group_balances b ON b.group_id = m.group_id AND b.user_id = m.user_id
		WHERE m.group_id = ?
		ORDER BY m.user_id
	`
	rows, err := db.QueryContext(ctx, query, groupID)
	if err != nil {
		utils.WriteError(w, "failed to retrieve members", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var members []memberView
	for rows.Next() {
		var m memberView
		if err := rows.Scan(&m.UserID, &m.Username, &m.Role, &m.Balance); err != nil {
			utils.Logger.Errorf("error scanning member: %v", err)
			continue
		}
		members = append(members, m)
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"group":   group,
			"members": members,
		},
	})
}

// FUNC TO INVITE A MEMBER BY EMAIL
func InviteMembersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		Email string `json:"email"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.WriteError(w, "a valid email is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var groupName string
	err = db.QueryRowContext(ctx, "SELECT name FROM groups WHERE id = ?", groupID).Scan(&groupName)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve group", http.StatusInternalServerError)
		return
	}

	if !isGroupMember(ctx, db, groupID, userID, w) {
		return
	}

	var alreadyMember bool
	err = db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM group_members m JOIN users u ON m.user_id = u.id
			WHERE m.group_id = ? AND u.email = ?
		)`, groupID, req.Email).Scan(&alreadyMember)
	if err != nil {
		utils.WriteError(w, "failed to check membership", http.StatusInternalServerError)
		return
	}
	if alreadyMember {
		utils.WriteError(w, "user is already a member of this group", http.StatusConflict)
		return
	}

	expiryHours := 72
	if cfg := handlers.AppConfig; cfg != nil && cfg.InviteExpiryHrs > 0 {
		expiryHours = cfg.InviteExpiryHrs
	}
	expiresAt := time.Now().Add(time.Duration(expiryHours) * time.Hour)

	token := uuid.New().String()

	_, err = db.ExecContext(ctx, `
		INSERT INTO group_invitations (group_id, email, token, status, invited_by, expires_at)
		VALUES (?, ?, ?, 'pending', ?, ?)
	`, groupID, req.Email, token, userID, expiresAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		utils.Logger.Errorf("failed to create invitation: %v", err)
		utils.WriteError(w, "failed to create invitation", http.StatusInternalServerError)
		return
	}

	var inviterName string
	db.QueryRowContext(ctx, "SELECT username FROM users WHERE id = ?", userID).Scan(&inviterName)

	go func(email, inviter, group, token string, expires time.Time) {
		if err := utils.SendGroupInviteEmail(email, inviter, group, token, expires); err != nil {
			utils.Logger.Errorf("failed to send invite email to %s: %v", email, err)
		}
	}(req.Email, inviterName, groupName, token, expiresAt)

	utils.WriteJSONStatus(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "invitation sent",
	})
}

// FUNC TO ACCEPT AN INVITATION
func AcceptInvitationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	token := r.PathValue("tokenCode")
	if token == "" {
		utils.WriteError(w, "invitation token is required", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var invite models.GroupInvitation
	err := db.QueryRowContext(ctx, `
		SELECT id, group_id, email, status, expires_at FROM group_invitations WHERE token = ?
	`, token).Scan(&invite.ID, &invite.GroupID, &invite.Email, &invite.Status, &invite.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "invitation not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to retrieve invitation", http.StatusInternalServerError)
		return
	}

	if invite.Status != "pending" {
		utils.WriteError(w, "invitation is no longer valid", http.StatusConflict)
		return
	}

	if invite.ExpiresAt.Valid {
		expires, err := time.Parse("2006-01-02 15:04:05", invite.ExpiresAt.String)
		if err == nil && time.Now().UTC().After(expires) {
			utils.WriteError(w, "invitation has expired", http.StatusGone)
			return
		}
	}

	var userEmail string
	err = db.QueryRowContext(ctx, "SELECT email FROM users WHERE id = ?", userID).Scan(&userEmail)
	if err != nil {
		utils.WriteError(w, "failed to verify user", http.StatusInternalServerError)
		return
	}
	if !strings.EqualFold(userEmail, invite.Email) {
		utils.WriteError(w, "this invitation was sent to a different email", http.StatusForbidden)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id, role) VALUES (?, ?, 'member')`,
		invite.GroupID, userID)
	if err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "you are already a member of this group", http.StatusConflict)
			return
		}
		utils.WriteError(w, "failed to join group", http.StatusInternalServerError)
		return
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO group_balances (group_id, user_id, balance) VALUES (?, ?, 0.00)`,
		invite.GroupID, userID)
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to initialize balance", http.StatusInternalServerError)
		return
	}

	_, err = tx.ExecContext(ctx, `UPDATE group_invitations SET status = 'accepted' WHERE id = ?`, invite.ID)
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to update invitation", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"message":  "invitation accepted",
		"group_id": invite.GroupID,
	})
}

// FUNC TO REMOVE A MEMBER FROM A GROUP
func RemoveGroupMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	userID, ok := handlers.UserIDFromContext(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		MemberID int `json:"member_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var role string
	err = db.QueryRowContext(ctx, "SELECT role FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
			return
		}
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return
	}
	if role != "admin" {
		utils.WriteError(w, "only a group admin can remove members", http.StatusForbidden)
		return
	}

	// A member with an outstanding balance cannot be removed; the ledger
	// would stop summing to zero.
	var balance decimal.Decimal
	err = db.QueryRowContext(ctx, "SELECT balance FROM group_balances WHERE group_id = ? AND user_id = ?", groupID, req.MemberID).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "member not found in group", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to fetch member balance", http.StatusInternalServerError)
		return
	}
	if !balance.IsZero() {
		utils.WriteError(w, "member has an outstanding balance and cannot be removed", http.StatusConflict)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM group_balances WHERE group_id = ? AND user_id = ?", groupID, req.MemberID)
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to remove member balance", http.StatusInternalServerError)
		return
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ? AND user_id = ?", groupID, req.MemberID)
	if err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to remove member", http.StatusInternalServerError)
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		tx.Rollback()
		utils.WriteError(w, "member not found in group", http.StatusNotFound)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "member removed from group",
	})
}

// isGroupMember writes an error response and returns false when userID is not
// a member of groupID.
func isGroupMember(ctx context.Context, db *sql.DB, groupID, userID int, w http.ResponseWriter) bool {
	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)", groupID, userID).Scan(&exists)
	if err != nil {
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return false
	}
	if !exists {
		utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
		return false
	}
	return true
}

// isGroupAdmin writes an error response and returns false when userID is not
// an admin of groupID.
func isGroupAdmin(ctx context.Context, db *sql.DB, groupID, userID int, w http.ResponseWriter) bool {
	var role string
	err := db.QueryRowContext(ctx, "SELECT role FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID).Scan(&role)
	if err == sql.ErrNoRows {
		utils.WriteError(w, "you are not a member of this group", http.StatusForbidden)
		return false
	}
	if err != nil {
		utils.WriteError(w, "failed to verify group membership", http.StatusInternalServerError)
		return false
	}
	if role != "admin" {
		utils.WriteError(w, "only group admins can perform this action", http.StatusForbidden)
		return false
	}
	return true
}
