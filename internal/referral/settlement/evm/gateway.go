// Package evm settles referral payments through a membership contract on an
// EVM chain. Registrations call register(referrer) and upgrades call
// upgradeLevel(level, recipient), both paying the price as native value.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/settlement"
	"github.com/goodnatureofminers/referral-ledger-backend/pkg/safe"
	"github.com/shopspring/decimal"
)

const contractABI = `[
	{"type":"function","name":"register","stateMutability":"payable","inputs":[{"name":"referrer","type":"address"}],"outputs":[]},
	{"type":"function","name":"upgradeLevel","stateMutability":"payable","inputs":[{"name":"level","type":"uint8"},{"name":"recipient","type":"address"}],"outputs":[]}
]`

const (
	methodRegister = "register"
	methodUpgrade  = "upgradeLevel"

	// nativeDecimals is the number of decimals of the chain's native token.
	nativeDecimals = 18
)

// Raw statuses reported in Verification.RawStatus.
const (
	StatusSuccess         = "success"
	StatusNotFound        = "not_found"
	StatusPending         = "pending"
	StatusReverted        = "reverted"
	StatusUnconfirmed     = "insufficient_confirmations"
	StatusWrongContract   = "wrong_contract"
	StatusUnknownFunction = "unknown_function"
)

// Dial opens an RPC connection to an EVM node.
func Dial(endpoint string) (*ethclient.Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errors.New("evm endpoint required")
	}
	return ethclient.Dial(trimmed)
}

type Config struct {
	Contract      common.Address
	ChainID       *big.Int
	Confirmations uint64
}

// Gateway implements settlement.Gateway against the membership contract.
type Gateway struct {
	client Client
	cfg    Config
	abi    abi.ABI
	signer types.Signer
}

var _ settlement.Gateway = (*Gateway)(nil)

func NewGateway(client Client, cfg Config) (*Gateway, error) {
	if client == nil {
		return nil, errors.New("evm client is required")
	}
	if (cfg.Contract == common.Address{}) {
		return nil, errors.New("contract address is required")
	}
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, errors.New("chain id must be positive")
	}
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}
	return &Gateway{
		client: client,
		cfg:    cfg,
		abi:    parsed,
		signer: types.LatestSignerForChainID(cfg.ChainID),
	}, nil
}

// BuildPayload encodes the contract call the payer has to submit.
func (g *Gateway) BuildPayload(_ context.Context, req settlement.PayloadRequest) (settlement.Payload, error) {
	if !req.Amount.IsPositive() {
		return settlement.Payload{}, fmt.Errorf("amount must be positive, got %s", req.Amount)
	}
	if req.Counterparty == "" {
		return settlement.Payload{}, errors.New("counterparty is required")
	}

	var (
		data []byte
		err  error
	)
	switch req.Operation {
	case model.OperationRegistration:
		data, err = g.abi.Pack(methodRegister, req.Counterparty.Address())
	case model.OperationUpgrade:
		level, convErr := safe.Uint8(req.Level)
		if convErr != nil {
			return settlement.Payload{}, fmt.Errorf("encode level: %w", convErr)
		}
		data, err = g.abi.Pack(methodUpgrade, level, req.Counterparty.Address())
	default:
		return settlement.Payload{}, fmt.Errorf("unsupported operation %q", req.Operation)
	}
	if err != nil {
		return settlement.Payload{}, fmt.Errorf("pack %s call: %w", req.Operation, err)
	}

	return settlement.Payload{
		Operation: req.Operation,
		Level:     req.Level,
		Amount:    req.Amount,
		To:        g.cfg.Contract.Hex(),
		Data:      hexutil.Encode(data),
		Value:     req.Amount.Shift(nativeDecimals).BigInt().String(),
		ChainID:   g.cfg.ChainID.String(),
	}, nil
}

// Verify looks the transaction up on chain and decodes what it paid for.
// A missing, pending or reverted transaction is reported as unconfirmed.
func (g *Gateway) Verify(ctx context.Context, externalID string) (settlement.Verification, error) {
	hash, err := parseTxHash(externalID)
	if err != nil {
		return settlement.Verification{}, err
	}

	receipt, err := g.client.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return settlement.Verification{RawStatus: StatusNotFound}, nil
		}
		return settlement.Verification{}, fmt.Errorf("%w: fetch receipt: %w", model.ErrTransientUnavailable, err)
	}
	if receipt == nil {
		return settlement.Verification{RawStatus: StatusNotFound}, nil
	}

	ref := blockReference(receipt)
	if receipt.Status != types.ReceiptStatusSuccessful {
		return settlement.Verification{BlockReference: ref, RawStatus: StatusReverted}, nil
	}

	if g.cfg.Confirmations > 0 {
		ok, err := g.hasConfirmations(ctx, receipt)
		if err != nil {
			return settlement.Verification{}, err
		}
		if !ok {
			return settlement.Verification{BlockReference: ref, RawStatus: StatusUnconfirmed}, nil
		}
	}

	tx, pending, err := g.client.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return settlement.Verification{RawStatus: StatusNotFound}, nil
		}
		return settlement.Verification{}, fmt.Errorf("%w: fetch transaction: %w", model.ErrTransientUnavailable, err)
	}
	if pending {
		return settlement.Verification{RawStatus: StatusPending}, nil
	}
	if tx.To() == nil || *tx.To() != g.cfg.Contract {
		return settlement.Verification{BlockReference: ref, RawStatus: StatusWrongContract}, nil
	}

	v := settlement.Verification{
		Confirmed:      true,
		BlockReference: ref,
		RawStatus:      StatusSuccess,
		Amount:         decimal.NewNullDecimal(decimal.NewFromBigInt(tx.Value(), -nativeDecimals)),
	}
	if err := g.decodeCall(tx.Data(), &v); err != nil {
		return settlement.Verification{BlockReference: ref, RawStatus: StatusUnknownFunction}, nil
	}
	if from, err := types.Sender(g.signer, tx); err == nil {
		v.Payer = model.Wallet(from.Hex())
	}
	return v, nil
}

func (g *Gateway) hasConfirmations(ctx context.Context, receipt *types.Receipt) (bool, error) {
	header, err := g.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: fetch head: %w", model.ErrTransientUnavailable, err)
	}
	if header == nil || header.Number == nil || receipt.BlockNumber == nil {
		return false, fmt.Errorf("%w: block metadata unavailable", model.ErrTransientUnavailable)
	}
	if header.Number.Cmp(receipt.BlockNumber) < 0 {
		return false, nil
	}
	confirmed := new(big.Int).Sub(header.Number, receipt.BlockNumber)
	confirmed.Add(confirmed, big.NewInt(1))
	return confirmed.Cmp(new(big.Int).SetUint64(g.cfg.Confirmations)) >= 0, nil
}

func (g *Gateway) decodeCall(data []byte, v *settlement.Verification) error {
	if len(data) < 4 {
		return errors.New("call data too short")
	}
	method, err := g.abi.MethodById(data[:4])
	if err != nil {
		return err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return fmt.Errorf("unpack %s: %w", method.Name, err)
	}
	switch method.Name {
	case methodRegister:
		referrer, ok := args[0].(common.Address)
		if !ok {
			return fmt.Errorf("unexpected referrer type %T", args[0])
		}
		v.Operation = model.OperationRegistration
		v.Level = 1
		v.Counterparty = model.Wallet(referrer.Hex())
	case methodUpgrade:
		level, ok := args[0].(uint8)
		if !ok {
			return fmt.Errorf("unexpected level type %T", args[0])
		}
		recipient, ok := args[1].(common.Address)
		if !ok {
			return fmt.Errorf("unexpected recipient type %T", args[1])
		}
		v.Operation = model.OperationUpgrade
		v.Level = int(level)
		v.Counterparty = model.Wallet(recipient.Hex())
	default:
		return fmt.Errorf("unsupported method %s", method.Name)
	}
	return nil
}

func parseTxHash(externalID string) (common.Hash, error) {
	raw, err := hexutil.Decode(strings.TrimSpace(externalID))
	if err != nil || len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %q is not a transaction hash", model.ErrInvalidExternalID, externalID)
	}
	return common.BytesToHash(raw), nil
}

func blockReference(receipt *types.Receipt) string {
	if receipt.BlockNumber == nil {
		return receipt.BlockHash.Hex()
	}
	return fmt.Sprintf("%s@%s", receipt.BlockNumber.String(), receipt.BlockHash.Hex())
}
