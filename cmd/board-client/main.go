package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"juicyboard/client-go/board/api"
	"juicyboard/client-go/board/config"
	"juicyboard/client-go/board/gateway"
	"juicyboard/client-go/board/kvstore"
	"juicyboard/client-go/board/router"
	"juicyboard/client-go/board/session"
	"juicyboard/client-go/board/ui"
	"juicyboard/client-go/board/views"
)

var (
	apiBase     = flag.String("api-base", "", "backend API base URL (also via env BOARD_API_BASE)")
	configPath  = flag.String("config", "", "path to config.yaml (defaults to <data-dir>/config.yaml)")
	dataDir     = flag.String("data-dir", "", "data directory for the session db (defaults to OS config dir)")
	mdnsEnabled = flag.Bool("mdns", false, "use mDNS on LAN to discover the backend API base URL")
	mdnsService = flag.String("mdns-service", defaultMdnsService, "mDNS service type for the backend API")
	mdnsTimeout = flag.Duration("mdns-timeout", defaultMdnsTimeout, "mDNS discovery timeout")
	viewHeight  = flag.Int("view-height", 24, "viewport height in lines")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signals := []os.Signal{os.Interrupt}
	if runtime.GOOS != "windows" {
		signals = append(signals, syscall.SIGTERM)
	}
	signal.Notify(sigCh, signals...)
	go func() {
		<-sigCh
		log.Printf("signal received, shutting down")
		cancel()
	}()

	dd := *dataDir
	if dd == "" {
		var err error
		dd, err = config.DefaultDataDir()
		if err != nil {
			dd = filepath.Join(".", "data")
		}
	}
	if err := os.MkdirAll(dd, 0o755); err != nil {
		log.Fatalf("data dir: %v", err)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(dd, "config.yaml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	base := resolveAPIBaseWithMdns(ctx, *apiBase, cfg.BaseURL,
		*mdnsEnabled || cfg.Mdns.Enabled, pick(*mdnsService, cfg.Mdns.Service), *mdnsTimeout)
	if base == "" {
		base = "http://127.0.0.1:8000"
	}

	kv, err := kvstore.Open(filepath.Join(dd, "state.db"))
	if err != nil {
		log.Fatalf("state db open error: %v", err)
	}
	defer kv.Close()

	sess := session.New(kv)
	notifier := ui.NewNotifier(os.Stdout)

	gw := gateway.New(base, sess)
	gw.HTTPClient.Timeout = cfg.HTTPTimeout
	gw.Notify = notifier.Notify

	mount := ui.NewMount()
	bindings := ui.NewBindings()
	viewport := ui.NewViewport(*viewHeight)

	app := &views.App{
		API:             api.New(gw, sess),
		Session:         sess,
		Mount:           mount,
		Bindings:        bindings,
		Viewport:        viewport,
		Notify:          notifier.Notify,
		Ctx:             ctx,
		PageSize:        cfg.PageSize,
		ScrollThreshold: cfg.ScrollThreshold,
	}
	r := app.NewRouter()

	log.Printf("board-client starting api=%s data=%s", base, dd)

	r.Start()
	fmt.Println(mount.Render())

	runShell(ctx, r, bindings, viewport, mount)
}

func pick(flagValue, configValue string) string {
	if flagValue != defaultMdnsService && strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if strings.TrimSpace(configValue) != "" {
		return configValue
	}
	return flagValue
}

// runShell reads commands from stdin and drives the router, bindings and
// viewport the way browser events would.
func runShell(ctx context.Context, r *router.Router, bindings *ui.Bindings, viewport *ui.Viewport, mount *ui.Mount) {
	sc := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Printf("[%s] > ", r.Location())
		if !sc.Scan() {
			return
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "go":
			if len(fields) < 2 {
				fmt.Println("usage: go <#fragment>")
				continue
			}
			r.Navigate(fields[1])
			r.Flush()
			fmt.Println(mount.Render())
		case "do":
			if len(fields) < 2 {
				fmt.Println("usage: do <action> [key=value ...]")
				continue
			}
			args := map[string]string{}
			for _, pair := range fields[2:] {
				k, v, _ := strings.Cut(pair, "=")
				args[k] = v
			}
			if err := bindings.Invoke(ctx, fields[1], args); err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			r.Flush()
			fmt.Println(mount.Render())
		case "scroll":
			n := 10
			if len(fields) > 1 {
				if v, err := strconv.Atoi(fields[1]); err == nil {
					n = v
				}
			}
			viewport.ScrollBy(n)
			r.Flush()
			fmt.Println(mount.Render())
		case "show":
			fmt.Println(mount.Render())
		case "actions":
			fmt.Println(strings.Join(bindings.Names(), " "))
		case "help":
			fmt.Println("commands: go <#fragment> | do <action> [k=v ...] | scroll [n] | show | actions | quit")
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q (try help)\n", fields[0])
		}
	}
}
