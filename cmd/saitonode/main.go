// saitonode is the node's CLI entrypoint: load configuration and an
// identity, wire storage, the block-fetch and metrics HTTP servers, and
// the three event processors, then run until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/saito-io/saito-node/internal/blockchain"
	"github.com/saito-io/saito-node/internal/config"
	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/engine"
	"github.com/saito-io/saito-node/internal/log"
	"github.com/saito-io/saito-node/internal/mempool"
	"github.com/saito-io/saito-node/internal/metricsserver"
	"github.com/saito-io/saito-node/internal/mining"
	"github.com/saito-io/saito-node/internal/netio"
	"github.com/saito-io/saito-node/internal/routing"
	"github.com/saito-io/saito-node/internal/storage"
	"github.com/saito-io/saito-node/internal/wallet"
)

var logger = log.NewModuleLogger(log.ModuleEngine)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Value: "saito.json",
		Usage: "path to the node's JSON Configuration file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Value: "./saito-data",
		Usage: "directory for block storage and the wallet file",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: ":9100",
		Usage: "bind address for the Prometheus /metrics route",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "saitonode"
	app.Usage = "run a Saito consensus engine node"
	app.Flags = []cli.Flag{configFlag, dataDirFlag, metricsAddrFlag}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		color.Red("saitonode: %v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	defer log.Sync()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	dataDir := c.String("datadir")
	w, err := loadOrCreateWallet(dataDir)
	if err != nil {
		return fmt.Errorf("loading wallet: %w", err)
	}
	color.Green("wallet public key: %x", w.PublicKey())

	store, err := storage.Open(dataDir + "/chaindata")
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	chain := blockchain.New()
	chain.SetWalletNotifier(w)
	chain.SetStorage(store)

	mp := mempool.New(w)
	bus := engine.NewBus()
	consensus := engine.NewConsensusProcessor(mp, chain, bus)

	miner := mining.New(w.PublicKey())
	miningProc := engine.NewMiningProcessor(miner, bus)

	peers := routing.NewPeerCollection()
	client := netio.NewClient()
	fetcher := netio.NewPeerFetcher(client)
	var network netio.Network = netio.NoopNetwork{}
	dispatcher := routing.NewDispatcher(peers, w, chain, network, fetcher, consensus)
	routingProc := engine.NewRoutingProcessor(peers, dispatcher, network, cfg)

	blockServer := netio.NewServer(cfg.Server.Endpoint.Host+fmt.Sprintf(":%d", cfg.Server.Endpoint.Port), store)
	go func() {
		if err := blockServer.ListenAndServe(); err != nil {
			logger.Error("block-fetch server stopped", "err", err.Error())
		}
	}()
	defer blockServer.Close()

	metrics := metricsserver.New(c.String("metrics-addr"))
	go func() {
		if err := metrics.ListenAndServe(); err != nil {
			logger.Error("metrics server stopped", "err", err.Error())
		}
	}()

	driver := engine.NewDriver(bus, consensus, routingProc, miningProc).WithReplaySource(store)
	if err := driver.Run(); err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	color.Cyan("saitonode running, tip at block %d", chainTipID(chain))
	miner.Start()

	waitForShutdown()

	color.Yellow("shutting down")
	driver.Stop()
	return nil
}

func chainTipID(chain *blockchain.Blockchain) uint64 {
	_, tipID := chain.Tip()
	return tipID
}

func loadOrCreateWallet(dataDir string) (*wallet.Wallet, error) {
	path := dataDir + "/wallet.dat"
	raw, err := storage.ReadWalletFile(path)
	if err == nil && len(raw) == core.PrivateKeySize+core.PublicKeySize {
		var sk core.PrivateKey
		var pk core.PublicKey
		copy(sk[:], raw[:core.PrivateKeySize])
		copy(pk[:], raw[core.PrivateKeySize:])
		return wallet.FromKeypair(sk, pk), nil
	}

	w, err := wallet.New()
	if err != nil {
		return nil, err
	}
	sk, pk := w.PrivateKey(), w.PublicKey()
	raw = append(append([]byte{}, sk[:]...), pk[:]...)
	if err := storage.WriteWalletFile(path, raw); err != nil {
		return nil, err
	}
	return w, nil
}

func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}
