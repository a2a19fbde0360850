package models

type Credit struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:100;not null" json:"title"`
	Name     string `gorm:"size:100;not null" json:"name"`
	OrderNum int    `gorm:"not null;default:0" json:"order_num"`
}
