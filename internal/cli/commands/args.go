package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// parseIndex читает индекс элемента из последнего прохода восприятия.
func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("неверный индекс %q", s)
	}
	return i, nil
}

func parsePoint(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("неверная координата x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("неверная координата y %q", ys)
	}
	return x, y, nil
}

// normalizeURL дописывает https:// к адресу без схемы.
func normalizeURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "about:") {
		return url
	}
	return "https://" + url
}
