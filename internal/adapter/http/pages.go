package http

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Trip CO2 Calculator</title>
</head>
<body>
  <h1>Trip CO2 Calculator</h1>
  <p>Upload a CSV with <code>Start Address</code> and <code>End Address</code>
  columns. Each row gets an estimated travel distance, a CO2 emission figure,
  and a calculation status appended.</p>
  <form action="/upload" method="post" enctype="multipart/form-data">
    <input type="file" name="file" accept=".csv" required>
    <button type="submit">Calculate emissions</button>
  </form>
  <p><a href="/methodology">How the numbers are calculated</a></p>
</body>
</html>
`

const methodologyHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Methodology - Trip CO2 Calculator</title>
</head>
<body>
  <h1>Methodology</h1>
  <p>Addresses are resolved to coordinates with the OneMap Singapore search
  API (first match only). The travel distance is the great-circle distance
  between both points (haversine formula, Earth radius 6371 km) multiplied
  by a road-circuity factor of 1.3, approximating driving distance on a
  dense urban road network.</p>
  <p>Emissions are estimated as distance &times; 0.2 kg CO2 per km, the
  average for private cars and taxis in Singapore per NEA figures and the
  IPCC Guidelines for National Greenhouse Gas Inventories.</p>
  <p><a href="/">Back</a></p>
</body>
</html>
`
