package models

// CarStatus gates whether a car is listed and can be ordered
type CarStatus int

const (
	CarStatusNotVerified CarStatus = 100
	CarStatusVerified    CarStatus = 200
	CarStatusArchived    CarStatus = 300
	CarStatusBanned      CarStatus = 400
)

var carStatusLabels = map[CarStatus]string{
	CarStatusNotVerified: "Not verified",
	CarStatusVerified:    "Verified",
	CarStatusArchived:    "Archived",
	CarStatusBanned:      "Banned",
}

func (s CarStatus) Label() string { return carStatusLabels[s] }

// FuelType of a car model
type FuelType string

const (
	FuelAI92     FuelType = "92"
	FuelAI95     FuelType = "95"
	FuelAI100    FuelType = "100"
	FuelGas      FuelType = "GS"
	FuelDiesel   FuelType = "DT"
	FuelElectric FuelType = "EL"
)

var fuelTypeLabels = map[FuelType]string{
	FuelAI92:     "AI-92",
	FuelAI95:     "AI-95",
	FuelAI100:    "AI-100",
	FuelGas:      "Gas",
	FuelDiesel:   "Diesel",
	FuelElectric: "Electricity",
}

func (f FuelType) Label() string { return fuelTypeLabels[f] }

// Drive layout of a car model
type Drive string

const (
	DriveRWD Drive = "RWD"
	DriveFWD Drive = "FWD"
	DriveAWD Drive = "AWD"
)

var driveLabels = map[Drive]string{
	DriveRWD: "Rear-wheel drive",
	DriveFWD: "Front-wheel drive",
	DriveAWD: "All-wheel drive",
}

func (d Drive) Label() string { return driveLabels[d] }

// Gearbox of a car model
type Gearbox string

const (
	GearboxManual    Gearbox = "MA"
	GearboxAutomatic Gearbox = "AU"
	GearboxRobot     Gearbox = "AR"
	GearboxCVT       Gearbox = "AC"
)

var gearboxLabels = map[Gearbox]string{
	GearboxManual:    "Manual",
	GearboxAutomatic: "Automatic",
	GearboxRobot:     "Robotized",
	GearboxCVT:       "CVT",
}

func (g Gearbox) Label() string { return gearboxLabels[g] }

// BodyType of a car model
type BodyType string

const (
	BodySedan        BodyType = "SE"
	BodyLiftback     BodyType = "LF"
	BodyCoupe        BodyType = "CP"
	BodyHatchback3   BodyType = "H3"
	BodyHatchback5   BodyType = "H5"
	BodyStationWagon BodyType = "SW"
	BodySUV3         BodyType = "S3"
	BodySUV5         BodyType = "S5"
	BodyMinivan      BodyType = "MV"
	BodyPickup       BodyType = "PC"
	BodyLimousine    BodyType = "LM"
	BodyVan          BodyType = "VN"
	BodyCabriolet    BodyType = "CB"
)

var bodyTypeLabels = map[BodyType]string{
	BodySedan:        "Sedan",
	BodyLiftback:     "Liftback",
	BodyCoupe:        "Coupe",
	BodyHatchback3:   "Hatchback 3 doors",
	BodyHatchback5:   "Hatchback 5 doors",
	BodyStationWagon: "Station wagon",
	BodySUV3:         "SUV 3 doors",
	BodySUV5:         "SUV 5 doors",
	BodyMinivan:      "Minivan",
	BodyPickup:       "Pickup",
	BodyLimousine:    "Limousine",
	BodyVan:          "Van",
	BodyCabriolet:    "Cabriolet",
}

func (b BodyType) Label() string { return bodyTypeLabels[b] }
