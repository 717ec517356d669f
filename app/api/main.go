package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/database/mongoclient"
	"github.com/x-xyz/marketplace/base/database/redisclient"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	bValidator "github.com/x-xyz/marketplace/base/validator"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/asset"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
	"github.com/x-xyz/marketplace/domain/keys"
	"github.com/x-xyz/marketplace/domain/marketplace"
	"github.com/x-xyz/marketplace/domain/payment"
	mmiddleware "github.com/x-xyz/marketplace/middleware"
	"github.com/x-xyz/marketplace/service/cache"
	"github.com/x-xyz/marketplace/service/cache/provider"
	"github.com/x-xyz/marketplace/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/marketplace/service/cache/provider/redis"
	"github.com/x-xyz/marketplace/service/query"
	"github.com/x-xyz/marketplace/service/redis"
	asset_delivery "github.com/x-xyz/marketplace/stores/asset/delivery/http"
	asset_repository "github.com/x-xyz/marketplace/stores/asset/repository"
	asset_usecase "github.com/x-xyz/marketplace/stores/asset/usecase"
	auth_delivery "github.com/x-xyz/marketplace/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/x-xyz/marketplace/stores/auth/usecase"
	counter_repository "github.com/x-xyz/marketplace/stores/counter/repository"
	hc_delivery "github.com/x-xyz/marketplace/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/marketplace/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/marketplace/stores/healthcheck/usecase"
	marketplace_discord "github.com/x-xyz/marketplace/stores/marketplace/delivery/discord"
	marketplace_delivery "github.com/x-xyz/marketplace/stores/marketplace/delivery/http"
	marketplace_repository "github.com/x-xyz/marketplace/stores/marketplace/repository"
	marketplace_usecase "github.com/x-xyz/marketplace/stores/marketplace/usecase"
	payment_delivery "github.com/x-xyz/marketplace/stores/payment/delivery/http"
	payment_repository "github.com/x-xyz/marketplace/stores/payment/repository"
	tracker_state_repository "github.com/x-xyz/marketplace/stores/tracker_state/repository"
	payment_usecase "github.com/x-xyz/marketplace/stores/payment/usecase"

	_ "github.com/x-xyz/marketplace/app/api/docs"
)

const (
	storageMongo  = "mongo"
	storageMemory = "memory"

	cacheProviderRedis = "redis"
)

var (
	defaultCollection = asset.Collection{
		Address: "0x5fbdb2315678afecb367f032d93f642f64180aa3",
		Name:    "DApp NFT",
		Symbol:  "DAPP",
	}
)

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path of the yaml config")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	log.SetDebug(viper.GetBool(`debug`))
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

// stores groups the repositories of one storage backend
type stores struct {
	transactor   domain.Transactor
	counter      domain.CounterRepo
	asset        asset.Repo
	balance      payment.Repo
	listing      marketplace.ListingRepo
	event        marketplace.EventRepo
	trackerState domain.TrackerStateRepo
	health       []hcdomain.HealthCheckRepo
}

func mustInitStores(context ctx.Ctx) *stores {
	switch storage := viper.GetString("storage"); storage {
	case storageMemory:
		context.Info("init memory storage")
		return &stores{
			transactor:   domain.NoopTransactor{},
			counter:      counter_repository.NewMemoryCounterRepo(),
			asset:        asset_repository.NewMemoryAssetRepo(),
			balance:      payment_repository.NewMemoryBalanceRepo(),
			listing:      marketplace_repository.NewMemoryListingRepo(),
			event:        marketplace_repository.NewMemoryEventRepo(),
			trackerState: tracker_state_repository.NewMemoryTrackerStateRepo(),
		}
	case storageMongo, "":
		context.Info("init mongo")
		mongoClient := mongoclient.MustConnect(mongoclient.Config{
			URI:                viper.GetString("mongo.uri"),
			AuthDBName:         viper.GetString("mongo.authDBName"),
			DBName:             viper.GetString("mongo.dbName"),
			SSL:                viper.GetBool("mongo.enableSSL"),
			SetSafe:            true,
			PoolSizeMultiplier: 2,
		})
		q := query.New(mongoClient, viper.GetBool("mongo.checkIndex"))

		for _, indexes := range []map[domain.Table][]query.Index{
			counter_repository.Indexes(),
			asset_repository.Indexes(),
			payment_repository.Indexes(),
			marketplace_repository.Indexes(),
			tracker_state_repository.Indexes(),
		} {
			for table, idx := range indexes {
				if err := q.EnsureIndexes(context, table, idx...); err != nil {
					context.WithFields(log.Fields{"err": err, "table": table}).Panic("failed to q.EnsureIndexes")
				}
			}
		}

		return &stores{
			transactor:   q,
			counter:      counter_repository.NewCounterRepo(q),
			asset:        asset_repository.NewAssetRepo(q),
			balance:      payment_repository.NewBalanceRepo(q),
			listing:      marketplace_repository.NewListingRepo(q),
			event:        marketplace_repository.NewEventRepo(q),
			trackerState: tracker_state_repository.NewTrackerStateRepo(q),
			health:       []hcdomain.HealthCheckRepo{hc_repo.NewMongoRepo(q)},
		}
	default:
		context.WithField("storage", storage).Panic("unknown storage")
	}
	return nil
}

func mustInitCacheProvider(context ctx.Ctx, s *stores) provider.Provider {
	if viper.GetString("cache.provider") != cacheProviderRedis {
		sizeMB := viper.GetInt("cache.sizeMB")
		if sizeMB <= 0 {
			sizeMB = 64
		}
		return primitive.NewPrimitive("cache", sizeMB)
	}

	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCachePool := redisclient.MustConnect(redisclient.Config{
		URI:            viper.GetString("redis_cache.uri"),
		Password:       viper.GetString("redis_cache.password"),
		PoolMultiplier: viper.GetFloat64("redis_cache.poolMultiplier"),
		Retry:          true,
	})
	redisService := redis.New(redisCacheName, metrics.New(redisCacheName), redisCachePool)
	s.health = append(s.health, hc_repo.NewRedisRepo(redisService))
	return redisCache.NewRedis(redisService)
}

func collections(context ctx.Ctx) []asset.Collection {
	res := []asset.Collection{}
	if err := viper.UnmarshalKey("assets.collections", &res); err != nil {
		context.WithField("err", err).Panic("failed to parse assets.collections")
	}
	if len(res) == 0 {
		res = append(res, defaultCollection)
	}
	return res
}

//	@title			Escrow Marketplace API
//	@version		1.0
//	@description	API Document for the escrow NFT marketplace.

//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrieve a token from /auth/sign and send it as: bearer {token}
func main() {
	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middL.CORS)
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()

	s := mustInitStores(context)
	cacheProvider := mustInitCacheProvider(context, s)
	cacheTTL := viper.GetDuration("cache.ttl")
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	mmiddleware.SetupCache(cacheProvider)

	registries := []asset.Registry{}
	for _, coll := range collections(context) {
		r := asset_usecase.New(&asset_usecase.RegistryCfg{
			Collection:  coll,
			Repo:        s.asset,
			CounterRepo: s.counter,
			Transactor:  s.transactor,
		})
		context.WithFields(log.Fields{"address": r.Contract(), "name": r.Name(), "symbol": r.Symbol()}).Info("asset registry ready")
		registries = append(registries, r)
	}
	directory := asset_usecase.NewDirectory(registries...)

	bank := payment_usecase.New(&payment_usecase.BankCfg{
		Repo:       s.balance,
		Transactor: s.transactor,
	})

	ledger := marketplace_usecase.New(&marketplace_usecase.LedgerCfg{
		Config: marketplace.Config{
			Address:      domain.Address(viper.GetString("marketplace.address")),
			FeeRecipient: domain.Address(viper.GetString("marketplace.feeRecipient")),
			FeePercent:   viper.GetUint64("marketplace.feePercent"),
		},
		ListingRepo: s.listing,
		EventRepo:   s.event,
		CounterRepo: s.counter,
		Directory:   directory,
		Bank:        bank,
		Transactor:  s.transactor,
		Cache: cache.New(cache.ServiceConfig{
			Ttl:   cacheTTL,
			Pfx:   keys.PfxListing,
			Cache: cacheProvider,
		}),
		Metrics: metrics.New("marketplace"),
	})
	context.WithFields(log.Fields{
		"address":      ledger.Address(),
		"feeRecipient": ledger.FeeRecipient(),
		"feePercent":   ledger.FeePercent(),
	}).Info("marketplace ready")

	hc := hc_usecase.New(s.health...)
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), viper.GetString("auth.signatureMsg"))

	adminAddresses := viper.GetStringSlice("admin.addresses")
	authMiddleware := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth)
	asset_delivery.New(e, directory, authMiddleware.Auth(), mmiddleware.CacheHttp(cacheTTL))
	payment_delivery.New(e, bank, authMiddleware.Auth(), authMiddleware.IsAdmin())
	marketplace_delivery.New(e, ledger, authMiddleware.Auth())

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/check", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"address": c.Get("address").(domain.Address),
		})
	}, authMiddleware.Auth())

	var notifier *marketplace_discord.Notifier
	if botKey := viper.GetString("discord.botKey"); botKey != "" {
		n, err := marketplace_discord.NewNotifier(&marketplace_discord.NotifierCfg{
			BotKey:    botKey,
			ChannelId: viper.GetString("discord.channelId"),
			AssetUrl:  viper.GetString("discord.assetUrl"),
		})
		if err != nil {
			context.WithField("err", err).Panic("failed to connect to discord")
		}
		notifier = n
	}

	// log every marketplace event and post it to discord when configured
	followerCtx, stopFollower := ctx.WithCancel(context)
	follower := marketplace_usecase.NewFollower(&marketplace_usecase.FollowerCfg{
		UseCase:         ledger,
		StateRepo:       s.trackerState,
		Name:            viper.GetString("events.trackerName"),
		PollInterval:    viper.GetDuration("events.pollInterval"),
		MaxPollInterval: viper.GetDuration("events.maxPollInterval"),
	})
	go func() {
		for ev := range follower.Run(followerCtx) {
			context.WithFields(log.Fields{
				"seq":           ev.Seq,
				"kind":          ev.Kind,
				"listingId":     ev.ListingId,
				"assetContract": ev.AssetContract,
				"assetId":       ev.AssetId,
				"price":         ev.Price,
				"seller":        ev.Seller,
				"buyer":         ev.Buyer,
			}).Info("marketplace event")
			if notifier != nil {
				// failures are logged by Notify, the follower keeps going
				_ = notifier.Notify(followerCtx, ev)
			}
		}
	}()

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	stopFollower()
	shutdownCtx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
