package routers

import (
	"net/http"

	"gamyartha/internal/api/handlers/groups"
)

func groupsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/groups/create", groups.CreateGroupHandler)

	mux.HandleFunc("/groups/", groups.GetMyGroupsHandler)

	mux.HandleFunc("/groups/{id}", groups.GetGroupByIDHandler)

	mux.HandleFunc("/groups/member/{id}/invite", groups.InviteMembersHandler)

	mux.HandleFunc("/groups/member/accept/{tokenCode}/invite", groups.AcceptInvitationHandler)

	mux.HandleFunc("/groups/member/{id}/remove", groups.RemoveGroupMemberHandler)

	return mux
}
