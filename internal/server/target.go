package server

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// blockedPaths - служебные страницы, которые не бывают карточками товара.
var blockedPaths = []string{
	"/admin",
	"/administrator",
	"/wp-admin",
	"/phpmyadmin",
	"/cpanel",
}

// checkTarget не дает открыть в браузере сервера локальные и внутренние адреса.
func checkTarget(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("некорректный URL: %w", err)
	}

	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.Path)

	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return fmt.Errorf("локальный адрес запрещен: %s", host)
	}

	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("внутренний адрес запрещен: %s", host)
		}
	}

	for _, p := range blockedPaths {
		if strings.HasPrefix(path, p) {
			return fmt.Errorf("служебная страница запрещена: %s", p)
		}
	}

	return nil
}
