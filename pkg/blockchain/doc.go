// Package blockchain wraps the SDK's Ethereum access.
//
// It exposes three concerns:
//
//   - Key handling: ParsePrivateKeyECDSA and GetAddressFromPrivateKeyECDSA
//     turn a hex private key into a signer address.
//   - Signatures: PersonalSign and RecoverPersonalSigner implement the EIP-191
//     personal-sign scheme used by both the sign-in challenge and webhook
//     verification, with the conventional {27,28} recovery byte.
//   - Token reads and amounts: EVMClient.TokenMetadata fetches ERC-20
//     name/symbol/decimals for tokens missing from the token list, and the
//     ToBaseUnits/FromBaseUnits helpers convert between display amounts and
//     smallest-unit integers.
//
// The RPC endpoint is optional for the SDK as a whole; only the on-chain
// metadata fallback needs it.
package blockchain
