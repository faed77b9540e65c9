package nakama

const (
	// RpcNewGame is the Nakama RPC id clients call to open a fresh solitaire match.
	RpcNewGame = "klondike_new_game"

	// MatchNameKlondike is the authoritative match handler name registered with Nakama.
	MatchNameKlondike = "klondike_match"

	// gameLabel is advertised in the match label so listings can filter solitaire matches.
	gameLabel = "klondike"

	// idleTimeoutSeconds terminates a match nobody has joined or rejoined.
	idleTimeoutSeconds = 60
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpDeal int64 = 1
	OpDraw int64 = 2
	OpMove int64 = 3
	OpFlip int64 = 4

	// Server -> Client
	OpState        int64 = 100
	OpMoveRejected int64 = 101
	OpError        int64 = 102
)

// Error codes carried by OpError messages.
const (
	errCodeBadRequest = 400
	errCodeNoGame     = 409
	errCodeInternal   = 500
)
