package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// System errors
	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Infrastructure (RPC)
	CodeRPCConnectionFailed: "Failed to connect to RPC endpoint",
	CodeRPCError:            "RPC call failed",
	CodeRPCTimeout:          "RPC call timed out",
	CodeRPCRateLimited:      "RPC endpoint rate limit exceeded",
	CodeAllEndpointsFailed:  "All configured RPC endpoints failed",
	CodeBlockPinFailed:      "Failed to pin block height for scan cycle",
	CodeGasPriceFailed:      "Failed to fetch gas price",
	CodeCircuitOpen:         "Circuit breaker is open",

	// Quote adapter
	CodeQuoteRevert:       "Quoter contract call reverted",
	CodeQuoteDecodeFailed: "Failed to decode quoter response",
	CodePoolNotFound:      "No pool found for token pair",

	// Gates
	CodeGasTooHigh:          "Gas estimate exceeds ceiling",
	CodeTooManyTicks:        "Quote crosses too many ticks",
	CodeStaleBlock:          "Quote block does not match pinned block",
	CodeStaleQuote:          "Quote timestamp is older than the freshness threshold",
	CodePriceSanity:         "Price deviates too far from anchor",
	CodeSlippageExceeded:    "Slippage across size curve exceeds limit",
	CodeNonMonotonicCurve:   "Output not monotonic across size curve",
	CodeExecutionDisabled:   "Execution is disabled",
	CodeSpreadNotProfitable: "Spread not profitable after gas",

	// Scanner defects
	CodeAdapterBug: "Adapter returned malformed data",
	CodeScannerBug: "Scanner internal defect",
}
