package chain

// ABI fragment for the LeafNFT contract views the gateway reads.
const leafNFTABI = `
[
  {
    "inputs": [{ "name": "leafId", "type": "uint256" }],
    "name": "getLeaf",
    "outputs": [
      {
        "components": [
          { "name": "name", "type": "string" },
          { "name": "personalityNote", "type": "string" },
          { "name": "pricePerMessage", "type": "uint256" },
          { "name": "isActive", "type": "bool" },
          { "name": "createdAt", "type": "uint256" },
          { "name": "totalMessages", "type": "uint256" }
        ],
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{ "name": "leafId", "type": "uint256" }],
    "name": "ownerOf",
    "outputs": [{ "name": "", "type": "address" }],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "totalLeaves",
    "outputs": [{ "name": "", "type": "uint256" }],
    "stateMutability": "view",
    "type": "function"
  }
]
`
