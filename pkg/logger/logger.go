package logger

import (
	"io"
	"log"
	"os"
)

var (
	// InfoLogger oddiy holat xabarlari uchun
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)

	// ErrorLogger xatolar uchun
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

// Init loggerlarni qayta sozlaydi. logFile berilgan bo'lsa, yozuvlar faylga ham ketadi.
// Qaytgan funksiya faylni yopadi.
func Init(logFile string) func() {
	infoOut := io.Writer(os.Stdout)
	errOut := io.Writer(os.Stderr)
	closeFn := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("log fayl ochilmadi (%s): %v", logFile, err)
		} else {
			infoOut = io.MultiWriter(os.Stdout, f)
			errOut = io.MultiWriter(os.Stderr, f)
			closeFn = func() { _ = f.Close() }
		}
	}

	InfoLogger = log.New(infoOut, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(errOut, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Paketlar ichida ishlatiladigan standart log ham shu formatda bo'lsin
	log.SetOutput(infoOut)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	return closeFn
}
