package handlers

// HandlerBundle groups the handler sets for route registration.
type HandlerBundle struct {
	Commission *CommissionHandler
	Acceptance *AcceptanceHandler
	Admin      *AdminHandler
}
