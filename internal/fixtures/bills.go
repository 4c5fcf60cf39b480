// Package fixtures holds sample bills for demos and tests
package fixtures

import "github.com/zombor/billed/internal/bill"

// Bills returns the sample bills, one per year from 2001 to 2004
func Bills() []bill.Bill {
	return []bill.Bill{
		{
			ID:           "47qAXb6fIm2zOKkLzMro",
			VAT:          80,
			FileURL:      "https://test.storage.tld/receipts/preview-facture-free-201801-pdf-1.jpg",
			Status:       bill.StatusPending,
			Type:         "Hôtel et logement",
			Commentary:   "séminaire billed",
			Name:         "encore",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
			Date:         "2004-04-04",
			Amount:       400,
			CommentAdmin: "ok",
			Email:        "a@a",
			Pct:          20,
		},
		{
			ID:           "BeKy5Mo4jkmdfPGYpTxZ",
			FileURL:      "https://test.storage.tld/receipts/1592770761.jpeg",
			Status:       bill.StatusRefused,
			Type:         "Transports",
			Commentary:   "",
			Name:         "test1",
			FileName:     "1592770761.jpeg",
			Date:         "2001-01-01",
			Amount:       100,
			CommentAdmin: "en fait non",
			Email:        "a@a",
			Pct:          20,
		},
		{
			ID:           "UIUZtnPQvnbFnB0ozvJh",
			Name:         "test3",
			Email:        "a@a",
			Type:         "Services en ligne",
			VAT:          60,
			Pct:          20,
			Commentary:   "",
			Amount:       300,
			Status:       bill.StatusAccepted,
			CommentAdmin: "bon bah d'accord",
			FileName:     "facture-client-php.png",
			Date:         "2003-03-03",
			FileURL:      "https://test.storage.tld/receipts/facture-client-php.png",
		},
		{
			ID:           "qcCK3SzECmaZAGRrHjaC",
			Status:       bill.StatusRefused,
			Pct:          20,
			Amount:       200,
			Email:        "a@a",
			Name:         "test2",
			VAT:          40,
			FileName:     "",
			Date:         "2002-02-02",
			CommentAdmin: "pas la bonne facture",
			Commentary:   "test2",
			Type:         "Restaurants et bars",
			FileURL:      "",
		},
	}
}
