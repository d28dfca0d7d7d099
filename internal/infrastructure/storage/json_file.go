package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// loadJSONFile faylni o'qib dst ga yozadi.
// Fayl yo'q bo'lsa (false, nil). Fayl buzilgan bo'lsa u "<nom>.corrupt-<unix>" ga ko'chiriladi
// va (false, nil) qaytadi: chaqiruvchi bo'sh holatdan boshlaydi.
// false qaytganda dst qisman to'lgan bo'lishi mumkin, uni ishlatmang.
func loadJSONFile(path string, dst interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
		log.Printf("⚠️ %s buzilgan (%v), %s ga ko'chirildi va bo'sh holatdan boshlanadi", path, err, aside)
		if renameErr := os.Rename(path, aside); renameErr != nil {
			return false, fmt.Errorf("move corrupt %s aside: %w", path, renameErr)
		}
		return false, nil
	}
	return true, nil
}

// saveJSONFile butun faylni qayta yozadi (vaqtinchalik fayl + rename).
func saveJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
