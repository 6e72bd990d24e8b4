package models

import (
	"fmt"
	"strings"
)

// KiranaStore is a local shop where VillageCoins can be redeemed.
type KiranaStore struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	VillageName string `json:"villageName"`
	Description string `json:"description"`
}

func (k *KiranaStore) Validate() error {
	if strings.TrimSpace(k.ID) == "" {
		return fmt.Errorf("kirana store id is required")
	}
	if strings.TrimSpace(k.Name) == "" {
		return fmt.Errorf("kirana store %s: name is required", k.ID)
	}
	return nil
}
