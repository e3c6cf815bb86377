package main

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"orbMint/internal/config"
	"orbMint/internal/decoder"
	"orbMint/internal/render"
	"orbMint/internal/seed"
	"orbMint/internal/storage"
	"orbMint/internal/traits"
)

func runRender(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRender(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	seedBytes, err := seed.ParseHex(cfg.Seed)
	if err != nil {
		return err
	}
	tokenID, err := parseTokenIDArg(cfg.TokenID)
	if err != nil {
		return err
	}

	store, err := storage.NewFileStore(cfg.Out)
	if err != nil {
		return err
	}

	assets, err := renderToStore(cmd.Context(), store, tokenID, seedBytes, render.Options{
		CollectionName: cfg.CollectionName,
		BaseURL:        cfg.AssetBaseURL,
	})
	if err != nil {
		return err
	}

	logger.Info("render complete",
		zap.String("token_id", cfg.TokenID),
		zap.String("out", cfg.Out),
		zap.Int("png_bytes", len(assets.PNG)),
		zap.Int("svg_bytes", len(assets.SVG)),
	)
	return nil
}

// renderToStore reproduces the asset set a job would generate for this seed.
func renderToStore(ctx context.Context, store *storage.FileStore, tokenID uint256.Int, seedBytes [seed.Size]byte, opts render.Options) (render.Assets, error) {
	sampler, err := traits.NewDefaultSampler()
	if err != nil {
		return render.Assets{}, err
	}
	stream, err := seed.New(seedBytes)
	if err != nil {
		return render.Assets{}, err
	}
	assets, err := render.Compose(tokenID, sampler.GenerateAttributes(stream), opts)
	if err != nil {
		return render.Assets{}, err
	}
	for _, keyed := range assets.Keyed(tokenID) {
		if err := store.StoreAsset(ctx, keyed.Key, keyed.Asset); err != nil {
			return render.Assets{}, fmt.Errorf("write %s: %w", keyed.Key, err)
		}
	}
	return assets, nil
}

func parseTokenIDArg(input string) (uint256.Int, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		return decoder.ParseTokenID(input)
	}
	value, ok := new(big.Int).SetString(input, 10)
	if !ok || value.Sign() < 0 {
		return uint256.Int{}, fmt.Errorf("invalid token id %q", input)
	}
	id, overflow := uint256.FromBig(value)
	if overflow {
		return uint256.Int{}, fmt.Errorf("token id exceeds 256 bits: %q", input)
	}
	return *id, nil
}
