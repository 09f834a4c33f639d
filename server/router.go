package server

import (
	"net/http"

	"broadside/server/domain"
	"broadside/server/handler"
)

func Route(gateway *domain.Gateway, application domain.Application) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", handler.NewAcceptHandler(gateway, application))
	return mux
}
