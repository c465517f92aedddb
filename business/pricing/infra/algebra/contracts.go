package algebra

// Algebra quoters do not report a per-quote gas estimate; quotes carry this
// fixed figure, sized from observed Camelot swap costs.
const DefaultGasEstimate = 180_000

// QuoterABI is the ABI for the Algebra quoter contract (Camelot, QuickSwap
// V3). Pools are not fee-tiered; the pool's current fee comes back with the
// quote.
const QuoterABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "tokenIn", "type": "address"},
			{"internalType": "address", "name": "tokenOut", "type": "address"},
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "uint160", "name": "limitSqrtPrice", "type": "uint160"}
		],
		"name": "quoteExactInputSingle",
		"outputs": [
			{"internalType": "uint256", "name": "amountOut", "type": "uint256"},
			{"internalType": "uint16", "name": "fee", "type": "uint16"}
		],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`
