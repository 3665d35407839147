package constants

// Option lists offered by the builder for select fields, keyed by preset name.
var (
	VehicleTypes = []string{
		"Carro Passeio",
		"Picape / SUV",
		"VUC",
		"Toco",
		"Truck",
		"Cavalo Mecânico",
		"Moto",
		"Máquina",
	}

	CarBrands = []string{
		"Toyota",
		"Volkswagen",
		"Ford",
		"Fiat",
		"Chevrolet",
		"Honda",
		"Hyundai",
		"Jeep",
	}

	TruckBrands = []string{
		"Mercedes-Benz",
		"Volvo",
		"Scania",
		"Volkswagen",
		"Iveco",
		"DAF",
	}

	TruckModels = []string{
		"Volvo FH 540",
		"Scania R 450",
		"VW Constellation",
		"MB Actros",
	}
)

const (
	PresetTypes       = "types"
	PresetCars        = "cars"
	PresetTruckBrands = "truck_brands"
	PresetTruckModels = "truck_models"
)
