package apperror

// Code represents a unique error code for the application. Codes double as
// reject-reason keys in the scan histogram, so their string values are part
// of the report schema and must stay stable.
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Infrastructure error codes (RPC layer)
const (
	CodeRPCConnectionFailed Code = "INFRA_RPC_CONNECTION_FAILED"
	CodeRPCError            Code = "INFRA_RPC_ERROR"
	CodeRPCTimeout          Code = "INFRA_RPC_TIMEOUT"
	CodeRPCRateLimited      Code = "INFRA_RPC_RATE_LIMITED"
	CodeAllEndpointsFailed  Code = "INFRA_ALL_ENDPOINTS_FAILED"
	CodeBlockPinFailed      Code = "INFRA_BLOCK_PIN_FAILED"
	CodeGasPriceFailed      Code = "INFRA_GAS_PRICE_FAILED"
	CodeCircuitOpen         Code = "INFRA_CIRCUIT_OPEN"
)

// Quote error codes (DEX adapter layer)
const (
	CodeQuoteRevert       Code = "QUOTE_REVERT"
	CodeQuoteDecodeFailed Code = "QUOTE_DECODE_FAILED"
	CodePoolNotFound      Code = "POOL_NOT_FOUND"
)

// Gate reject codes (structured gate failures, never raised)
const (
	CodeGasTooHigh          Code = "GATE_GAS_TOO_HIGH"
	CodeTooManyTicks        Code = "GATE_TOO_MANY_TICKS"
	CodeStaleBlock          Code = "GATE_STALE_BLOCK"
	CodeStaleQuote          Code = "GATE_STALE_QUOTE"
	CodePriceSanity         Code = "GATE_PRICE_SANITY"
	CodeSlippageExceeded    Code = "GATE_SLIPPAGE_EXCEEDED"
	CodeNonMonotonicCurve   Code = "GATE_NON_MONOTONIC_CURVE"
	CodeExecutionDisabled   Code = "EXECUTION_DISABLED"
	CodeSpreadNotProfitable Code = "SPREAD_NOT_PROFITABLE"
)

// Scanner defect codes (bugs in adapters or the scanner itself, kept apart
// from market and RPC conditions in the histogram)
const (
	CodeAdapterBug Code = "CODE_BUG_ADAPTER"
	CodeScannerBug Code = "CODE_BUG_SCANNER"
)

// Kind classifies a Code into the scan cycle's error taxonomy.
type Kind string

const (
	KindInfra   Kind = "infra"
	KindRevert  Kind = "revert"
	KindGate    Kind = "gate"
	KindCodeBug Kind = "code_bug"
	KindGeneral Kind = "general"
)

// kinds is the exhaustive Code -> Kind table. Every declared code has an
// entry; KindOf falls back to KindGeneral only for codes constructed outside
// this package.
var kinds = map[Code]Kind{
	CodeRequiredField:   KindGeneral,
	CodeInvalidInput:    KindGeneral,
	CodeInvalidFormat:   KindGeneral,
	CodeInvalidState:    KindGeneral,
	CodeNotFound:        KindGeneral,
	CodeValidationError: KindGeneral,

	CodeConfigurationError: KindGeneral,
	CodeInternalError:      KindCodeBug,
	CodeUnknownError:       KindGeneral,

	CodeRPCConnectionFailed: KindInfra,
	CodeRPCError:            KindInfra,
	CodeRPCTimeout:          KindInfra,
	CodeRPCRateLimited:      KindInfra,
	CodeAllEndpointsFailed:  KindInfra,
	CodeBlockPinFailed:      KindInfra,
	CodeGasPriceFailed:      KindInfra,
	CodeCircuitOpen:         KindInfra,

	CodeQuoteRevert:       KindRevert,
	CodeQuoteDecodeFailed: KindRevert,
	CodePoolNotFound:      KindRevert,

	CodeGasTooHigh:          KindGate,
	CodeTooManyTicks:        KindGate,
	CodeStaleBlock:          KindGate,
	CodeStaleQuote:          KindGate,
	CodePriceSanity:         KindGate,
	CodeSlippageExceeded:    KindGate,
	CodeNonMonotonicCurve:   KindGate,
	CodeExecutionDisabled:   KindGate,
	CodeSpreadNotProfitable: KindGate,

	CodeAdapterBug: KindCodeBug,
	CodeScannerBug: KindCodeBug,
}

// KindOf returns the taxonomy kind for a code.
func KindOf(code Code) Kind {
	if k, ok := kinds[code]; ok {
		return k
	}
	return KindGeneral
}

// AllCodes returns every declared code. Used by tests to assert the kind
// table stays exhaustive.
func AllCodes() []Code {
	out := make([]Code, 0, len(kinds))
	for c := range kinds {
		out = append(out, c)
	}
	return out
}
