package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/leafprotocol/leafgate/types"
)

var _ Reader = (*EVMReader)(nil)

const defaultCallTimeout = 15 * time.Second

// EVMReader reads receipts and LeafNFT state from an EVM node over JSON-RPC.
// The underlying ethclient is safe for concurrent use; the reader holds no
// per-request state.
type EVMReader struct {
	client  *ethclient.Client
	nftAddr common.Address
	nftABI  abi.ABI
	timeout time.Duration
}

// leafTuple mirrors the getLeaf return component for ABI unpacking.
type leafTuple struct {
	Name            string
	PersonalityNote string
	PricePerMessage *big.Int
	IsActive        bool
	CreatedAt       *big.Int
	TotalMessages   *big.Int
}

// NewEVMReader connects to the given RPC endpoint. A non-positive timeout
// falls back to the default per-call timeout.
func NewEVMReader(rpcURL, leafNFTAddress string, timeout time.Duration) (*EVMReader, error) {
	if !common.IsHexAddress(leafNFTAddress) {
		return nil, fmt.Errorf("invalid LeafNFT address %q", leafNFTAddress)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ledger RPC: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(leafNFTABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse LeafNFT ABI: %w", err)
	}

	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	return &EVMReader{
		client:  client,
		nftAddr: common.HexToAddress(leafNFTAddress),
		nftABI:  parsed,
		timeout: timeout,
	}, nil
}

// Close releases the underlying RPC connection.
func (r *EVMReader) Close() {
	r.client.Close()
}

// TransactionOutcome implements Reader.
func (r *EVMReader) TransactionOutcome(ctx context.Context, txHash string) (*TxOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	hash := common.HexToHash(txHash)

	receipt, err := r.client.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, mapReadError("transaction receipt", err)
	}

	tx, _, err := r.client.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, mapReadError("transaction lookup", err)
	}

	to := ""
	if tx.To() != nil {
		to = tx.To().Hex()
	}

	return &TxOutcome{
		Status: receipt.Status,
		To:     to,
		Logs:   receipt.Logs,
	}, nil
}

// GetLeaf implements Reader.
func (r *EVMReader) GetLeaf(ctx context.Context, leafID uint64) (*types.Leaf, error) {
	out, err := r.call(ctx, "getLeaf", new(big.Int).SetUint64(leafID))
	if err != nil {
		return nil, err
	}

	leaf := *abi.ConvertType(out[0], new(leafTuple)).(*leafTuple)
	return &types.Leaf{
		Name:            leaf.Name,
		PersonalityNote: leaf.PersonalityNote,
		PricePerMessage: leaf.PricePerMessage,
		IsActive:        leaf.IsActive,
		CreatedAt:       leaf.CreatedAt,
		TotalMessages:   leaf.TotalMessages,
	}, nil
}

// OwnerOf implements Reader.
func (r *EVMReader) OwnerOf(ctx context.Context, leafID uint64) (common.Address, error) {
	out, err := r.call(ctx, "ownerOf", new(big.Int).SetUint64(leafID))
	if err != nil {
		return common.Address{}, err
	}

	owner := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return owner, nil
}

// TotalLeaves implements Reader.
func (r *EVMReader) TotalLeaves(ctx context.Context) (uint64, error) {
	out, err := r.call(ctx, "totalLeaves")
	if err != nil {
		return 0, err
	}

	total := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return total.Uint64(), nil
}

func (r *EVMReader) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.nftABI.Pack(method, args...)
	if err != nil {
		return nil, types.NewInternal(fmt.Sprintf("failed to encode %s call", method), err)
	}

	res, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &r.nftAddr, Data: data}, nil)
	if err != nil {
		return nil, mapReadError(method, err)
	}
	if len(res) == 0 {
		// Calls against an address without code return empty data.
		return nil, types.NewNotFound(fmt.Sprintf("%s returned no data", method))
	}

	out, err := r.nftABI.Unpack(method, res)
	if err != nil {
		return nil, types.NewInternal(fmt.Sprintf("failed to decode %s result", method), err)
	}
	return out, nil
}

// mapReadError translates node errors into the gateway taxonomy: unknown
// references and reverts are not-found, everything else (timeouts, node
// unavailable) is transient and may be retried by the caller.
func mapReadError(op string, err error) error {
	switch {
	case errors.Is(err, ethereum.NotFound):
		return types.NewNotFound(fmt.Sprintf("%s: not found on ledger", op))
	case isRevert(err):
		return types.NewNotFound(fmt.Sprintf("%s: %v", op, err))
	default:
		return types.NewTransient(fmt.Sprintf("%s failed", op), err)
	}
}

func isRevert(err error) bool {
	return err != nil && strings.Contains(err.Error(), "execution reverted")
}
