package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gagliardetto/solana-go/rpc"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/config"
)

// NewRouterFromConfig dials every configured chain and registers its scanner.
// The returned close function releases the EVM connections.
func NewRouterFromConfig(ctx context.Context, chains map[string]config.ChainConfig, logger coreport.Logger) (*Router, func(), error) {
	router := NewRouter(logger.With(map[string]any{"component": "chain_router"}))
	var evmClients []*ethclient.Client

	closeAll := func() {
		for _, c := range evmClients {
			c.Close()
		}
	}

	for name, cc := range chains {
		name = strings.ToLower(name)

		switch strings.ToLower(cc.Kind) {
		case config.ChainKindSolana:
			scanner := NewSolanaScanner(rpc.New(cc.RPCURL), SolanaConfig{
				Name:              name,
				SignatureLimit:    cc.SignatureLimit,
				Tokens:            cc.Tokens,
				RequestsPerSecond: cc.RequestsPerSecond,
			}, logger)
			router.Register(name, scanner, cc.Timeout)

		case config.ChainKindEVM:
			client, err := ethclient.DialContext(ctx, cc.RPCURL)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("dial %s rpc: %w", name, err)
			}
			evmClients = append(evmClients, client)

			scanner := NewEVMScanner(client, EVMConfig{
				Name:              name,
				SignatureLimit:    cc.SignatureLimit,
				LookbackBlocks:    cc.LookbackBlocks,
				Tokens:            cc.Tokens,
				RequestsPerSecond: cc.RequestsPerSecond,
			}, logger)
			router.Register(name, scanner, cc.Timeout)

		default:
			closeAll()
			return nil, nil, fmt.Errorf("chain %s: unsupported kind %q", name, cc.Kind)
		}

		logger.Info("Chain scanner registered", map[string]any{
			"chain": name,
			"kind":  cc.Kind,
		})
	}

	return router, closeAll, nil
}
