package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	defaultMdnsService = "_juicyboard-api._tcp"
	defaultMdnsTimeout = 3 * time.Second
)

func resolveAPIBase(flagValue string) (base string, explicit bool) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, true
	}
	if v := strings.TrimSpace(os.Getenv("BOARD_API_BASE")); v != "" {
		return v, true
	}
	return "", false
}

func resolveAPIBaseWithMdns(
	ctx context.Context,
	flagValue string,
	configValue string,
	mdnsEnabled bool,
	mdnsService string,
	mdnsTimeout time.Duration,
) string {
	if base, ok := resolveAPIBase(flagValue); ok {
		return base
	}
	if v := strings.TrimSpace(configValue); v != "" {
		return v
	}
	if !mdnsEnabled {
		return ""
	}

	discovered, err := discoverAPIBaseMdns(ctx, mdnsService, mdnsTimeout)
	if err != nil {
		log.Printf("api mdns discovery failed: %v", err)
		return ""
	}
	log.Printf("api mdns discovered base url: %s", discovered)
	return discovered
}

func discoverAPIBaseMdns(ctx context.Context, service string, timeout time.Duration) (string, error) {
	service = strings.TrimSpace(service)
	if service == "" {
		service = defaultMdnsService
	}
	if timeout <= 0 {
		timeout = defaultMdnsTimeout
	}

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	var found string

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-entries:
				if e == nil {
					continue
				}
				if ep := extractEndpointFromTxt(e.Text); ep != "" {
					found = ep
					cancel() // stop browsing early
					return
				}
			}
		}
	}()

	if err := resolver.Browse(ctx, service, "local.", entries); err != nil {
		return "", err
	}
	<-ctx.Done()

	if strings.TrimSpace(found) == "" {
		return "", fmt.Errorf("no %s advertisements found within %s", service, timeout)
	}
	return found, nil
}

func extractEndpointFromTxt(txt []string) string {
	for _, s := range txt {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "endpoint=") {
			ep := strings.TrimSpace(strings.TrimPrefix(s, "endpoint="))
			if ep == "" || strings.ContainsAny(ep, "\r\n") {
				continue
			}
			return ep
		}
		// Allow advertising the bare URL as a single TXT string for simplicity.
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			if strings.ContainsAny(s, "\r\n") {
				continue
			}
			return s
		}
	}
	return ""
}
